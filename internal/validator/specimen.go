package validator

import (
	"strconv"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
)

// ValidateSpecimen implements the Specimen rules: patient ref
// (Fatal); embedded ICD-10 coding valid and its code matches one of the
// file's diagnosis ICD-10 codes (Fatal on mismatch); type (Warning);
// collection (Warning).
func ValidateSpecimen(ctx Context, s domain.Specimen) validation.Outcome[domain.Specimen] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "Specimen", EntityID: string(s.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(s.Patient == ctx.Patient, validation.Fatal, loc("patient"), "specimen.patient does not resolve"),
		ValidateICD10Coding(ctx.Registry, s.ICD10, loc("icd10")),
		validation.InSet(s.ICD10.Code, ctx.DiagnosisICD10Codes, loc("icd10"), "specimen.icd10 does not match any diagnosis icd10 code"),
		validation.ShouldBe(s.Type != "", loc("type"), "type is recommended"),
		validation.ShouldBe(s.Collection != nil && !s.Collection.IsZero(), loc("collection"), "collection is recommended"),
	)
	return validation.Seal(check, s)
}

// ValidateTumorCellContent enforces: value in [0,1]
// (Error); specimen ref (Fatal).
func ValidateTumorCellContent(ctx Context, c domain.TumorCellContent) validation.Outcome[domain.TumorCellContent] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "TumorCellContent", EntityID: string(c.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.InSet(c.Specimen, ctx.SpecimenIDs, loc("specimen"), "tumorCellContent.specimen does not resolve"),
		validation.MustBe(c.Value >= 0 && c.Value <= 1, validation.Error, loc("value"), "value must be within [0,1]"),
	)
	return validation.Seal(check, c)
}

// ValidateTumorMorphology enforces: patient+specimen
// refs (Fatal); ICD-O-3-M coding valid.
func ValidateTumorMorphology(ctx Context, m domain.TumorMorphology) validation.Outcome[domain.TumorMorphology] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "TumorMorphology", EntityID: string(m.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(m.Patient == ctx.Patient, validation.Fatal, loc("patient"), "tumorMorphology.patient does not resolve"),
		validation.InSet(m.Specimen, ctx.SpecimenIDs, loc("specimen"), "tumorMorphology.specimen does not resolve"),
		ValidateICDO3MCoding(ctx.Registry, m.ICDO3M, loc("icdO3M")),
	)
	return validation.Seal(check, m)
}

// ValidateHistologyReport enforces: patient+specimen
// refs (Fatal); issuedOn (Error); tumorMorphology defined (Warning), with
// the referenced id not checked against the file's tumor morphologies;
// tumorCellContent defined (Error), method = histologic (Error), valid.
func ValidateHistologyReport(ctx Context, h domain.HistologyReport) validation.Outcome[domain.HistologyReport] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "HistologyReport", EntityID: string(h.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(h.Patient == ctx.Patient, validation.Fatal, loc("patient"), "histologyReport.patient does not resolve"),
		validation.InSet(h.Specimen, ctx.SpecimenIDs, loc("specimen"), "histologyReport.specimen does not resolve"),
		validation.MustBe(h.IssuedOn != nil && !h.IssuedOn.IsZero(), validation.Error, loc("issuedOn"), "issuedOn is required"),
		validation.ShouldBe(h.TumorMorphology != nil, loc("tumorMorphology"), "tumorMorphology is recommended"),
	)

	if h.TumorCellContent == nil {
		check = validation.Combine(check, validation.MustBe(false, validation.Error, loc("tumorCellContent"), "tumorCellContent is required"))
	} else {
		check = validation.Combine(check,
			validation.MustBe(h.TumorCellContent.Method == domain.TCCMethodHistologic, validation.Error, loc("tumorCellContent.method"), "tumorCellContent.method must be histologic"),
		)
		tcc := ValidateTumorCellContent(ctx, *h.TumorCellContent)
		check = check.WithIssues(tcc.Issues()...)
	}

	return validation.Seal(check, h)
}

// ValidateMolecularPathologyFinding enforces: patient+
// specimen refs (Fatal); issuedOn (Error).
func ValidateMolecularPathologyFinding(ctx Context, f domain.MolecularPathologyFinding) validation.Outcome[domain.MolecularPathologyFinding] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "MolecularPathologyFinding", EntityID: string(f.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(f.Patient == ctx.Patient, validation.Fatal, loc("patient"), "molecularPathologyFinding.patient does not resolve"),
		validation.InSet(f.Specimen, ctx.SpecimenIDs, loc("specimen"), "molecularPathologyFinding.specimen does not resolve"),
		validation.MustBe(f.IssuedOn != nil && !f.IssuedOn.IsZero(), validation.Error, loc("issuedOn"), "issuedOn is required"),
	)
	return validation.Seal(check, f)
}

// ValidateSomaticNGSReport enforces: patient+specimen
// refs (Fatal); tumorCellContent.method = bioinformatic (Error) and valid;
// brcaness/msi in range (Error if out of range, Info if absent); tmb in
// range (Error); each simple variant's gene symbol present in HGNC
// (Error).
func ValidateSomaticNGSReport(ctx Context, r domain.SomaticNGSReport) validation.Outcome[domain.SomaticNGSReport] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "SomaticNGSReport", EntityID: string(r.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(r.Patient == ctx.Patient, validation.Fatal, loc("patient"), "somaticNGSReport.patient does not resolve"),
		validation.InSet(r.Specimen, ctx.SpecimenIDs, loc("specimen"), "somaticNGSReport.specimen does not resolve"),
		validation.MustBe(r.TumorCellContent.Method == domain.TCCMethodBioinformatic, validation.Error, loc("tumorCellContent.method"), "tumorCellContent.method must be bioinformatic"),
		validation.MustBe(r.TMB >= 0 && r.TMB <= 1_000_000, validation.Error, loc("tmb"), "tmb must be within [0,1000000]"),
	)
	check = check.WithIssues(ValidateTumorCellContent(ctx, r.TumorCellContent).Issues()...)

	if r.BRCAness == nil {
		check = check.WithIssues(validation.NewIssue(validation.Info, loc("brcaness"), "brcaness is absent"))
	} else {
		check = validation.Combine(check, validation.MustBe(*r.BRCAness >= 0 && *r.BRCAness <= 1, validation.Error, loc("brcaness"), "brcaness must be within [0,1]"))
	}
	if r.MSI == nil {
		check = check.WithIssues(validation.NewIssue(validation.Info, loc("msi"), "msi is absent"))
	} else {
		check = validation.Combine(check, validation.MustBe(*r.MSI >= 0 && *r.MSI <= 2, validation.Error, loc("msi"), "msi must be within [0,2]"))
	}

	for i, v := range r.Variants {
		vloc := validation.Location{EntityKind: "SomaticNGSReport", EntityID: string(r.ID), Attribute: "variants[" + strconv.Itoa(i) + "]"}
		if v.Kind == domain.VariantSimple {
			hasGene := v.Gene != nil && !v.Gene.IsZero()
			check = validation.Combine(check, validation.MustBe(hasGene, validation.Error, vloc, "simple variant requires a gene"))
			if hasGene {
				check = validation.Combine(check, validation.MustBe(ctx.Registry.HGNCHasSymbol(v.Gene.Code), validation.Error, vloc, "gene symbol is not a known HGNC symbol"))
			}
		}
	}

	return validation.Seal(check, r)
}
