package validator

import (
	"strconv"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
)

// ValidateDiagnosis implements the Diagnosis rules.
func ValidateDiagnosis(ctx Context, d domain.Diagnosis) validation.Outcome[domain.Diagnosis] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "Diagnosis", EntityID: string(d.ID), Attribute: attr}
	}

	check := validation.Combine(
		validation.MustBe(d.Patient == ctx.Patient, validation.Fatal, loc("patient"), "diagnosis.patient does not resolve"),
		validation.ShouldBe(d.RecordedOn != nil && !d.RecordedOn.IsZero(), loc("recordedOn"), "recordedOn is recommended"),
		validation.ShouldBe(d.GuidelineTreatmentStatus != nil, loc("guidelineTreatmentStatus"), "guidelineTreatmentStatus is recommended"),
	)

	if d.GuidelineTreatmentStatus != nil {
		check = validation.Combine(check, validation.MustBe(d.GuidelineTreatmentStatus.IsValid(), validation.Error, loc("guidelineTreatmentStatus"), "guidelineTreatmentStatus is not a recognized value"))
	}

	if d.ICD10 == nil || d.ICD10.IsZero() {
		check = validation.Combine(check, validation.MustBe(false, validation.Error, loc("icd10"), "icd10 is required"))
	} else {
		check = validation.Combine(check, ValidateICD10Coding(ctx.Registry, *d.ICD10, loc("icd10")))
	}

	if d.ICDO3T == nil || d.ICDO3T.IsZero() {
		check = validation.Combine(check, validation.CouldBe(false, loc("icdO3T"), "icdO3T is optional"))
	} else {
		check = validation.Combine(check, ValidateICDO3TCoding(ctx.Registry, *d.ICDO3T, loc("icdO3T")))
	}

	for i, href := range d.HistologyResults {
		itemLoc := validation.Location{EntityKind: "Diagnosis", EntityID: string(d.ID), Attribute: "histologyResults[" + strconv.Itoa(i) + "]"}
		check = validation.Combine(check, validation.InSet(href, ctx.HistologyReportIDs, itemLoc, "histologyResults reference does not resolve"))
	}

	return validation.Seal(check, d)
}

// ValidateFamilyMemberDiagnosis enforces: patient
// resolves (Fatal).
func ValidateFamilyMemberDiagnosis(ctx Context, f domain.FamilyMemberDiagnosis) validation.Outcome[domain.FamilyMemberDiagnosis] {
	loc := validation.Location{EntityKind: "FamilyMemberDiagnosis", EntityID: string(f.ID), Attribute: "patient"}
	check := validation.MustBe(f.Patient == ctx.Patient, validation.Fatal, loc, "familyMemberDiagnosis.patient does not resolve")
	return validation.Seal(check, f)
}

// ValidatePreviousGuidelineTherapy enforces: patient+
// diagnosis refs (Fatal); therapyLine (Warning); each medication coding
// valid.
func ValidatePreviousGuidelineTherapy(ctx Context, t domain.PreviousGuidelineTherapy) validation.Outcome[domain.PreviousGuidelineTherapy] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "PreviousGuidelineTherapy", EntityID: string(t.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(t.Patient == ctx.Patient, validation.Fatal, loc("patient"), "previousGuidelineTherapy.patient does not resolve"),
		validation.InSet(t.Diagnosis, ctx.DiagnosisIDs, loc("diagnosis"), "previousGuidelineTherapy.diagnosis does not resolve"),
		validation.ShouldBe(t.TherapyLine != nil, loc("therapyLine"), "therapyLine is recommended"),
	)
	for _, issue := range ValidateATCCodings(ctx.Registry, "PreviousGuidelineTherapy", string(t.ID), "medication", t.Medication) {
		check = check.WithIssues(issue)
	}
	return validation.Seal(check, t)
}

// ValidateLastGuidelineTherapy enforces: patient+
// diagnosis refs (Fatal); therapyLine (Warning); each medication coding
// valid; period defined (Warning), period.end defined (Warning),
// reasonStopped (Warning), a matching Response referencing this id
// (Warning).
func ValidateLastGuidelineTherapy(ctx Context, t domain.LastGuidelineTherapy, hasMatchingResponse bool) validation.Outcome[domain.LastGuidelineTherapy] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "LastGuidelineTherapy", EntityID: string(t.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(t.Patient == ctx.Patient, validation.Fatal, loc("patient"), "lastGuidelineTherapy.patient does not resolve"),
		validation.InSet(t.Diagnosis, ctx.DiagnosisIDs, loc("diagnosis"), "lastGuidelineTherapy.diagnosis does not resolve"),
		validation.ShouldBe(t.TherapyLine != nil, loc("therapyLine"), "therapyLine is recommended"),
		validation.ShouldBe(t.Period != nil, loc("period"), "period is recommended"),
		validation.ShouldBe(t.Period != nil && t.Period.End != nil, loc("period.end"), "period.end is recommended"),
		validation.ShouldBe(t.ReasonStopped != "", loc("reasonStopped"), "reasonStopped is recommended"),
		validation.ShouldBe(hasMatchingResponse, loc("id"), "no Response references this therapy"),
	)
	for _, issue := range ValidateATCCodings(ctx.Registry, "LastGuidelineTherapy", string(t.ID), "medication", t.Medication) {
		check = check.WithIssues(issue)
	}
	return validation.Seal(check, t)
}

// ValidateECOGStatus enforces: patient ref (Fatal);
// effectiveDate defined (Error).
func ValidateECOGStatus(ctx Context, e domain.ECOGStatus) validation.Outcome[domain.ECOGStatus] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "ECOGStatus", EntityID: string(e.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(e.Patient == ctx.Patient, validation.Fatal, loc("patient"), "ecogStatus.patient does not resolve"),
		validation.MustBe(e.EffectiveDate != nil && !e.EffectiveDate.IsZero(), validation.Error, loc("effectiveDate"), "effectiveDate is required"),
	)
	return validation.Seal(check, e)
}
