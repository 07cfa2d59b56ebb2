// Package validator implements the Entity Validators (C4) and File
// Validator (C5): one pure function per entity kind, composed over a
// Context holding the cross-reference sets a single MTB file resolves
// against, and a top-level Validate that dispatches by consent status.
package validator

import (
	"github.com/dnpm-intake/mtbvalidate/internal/catalog"
	"github.com/dnpm-intake/mtbvalidate/internal/domain"
)

// Context is the read-only reference-set bundle C5 derives from an MTB
// file before validating any of its children. Every Fatal cross-reference
// check in C4 resolves against one of these sets rather than walking the
// file itself, so an entity validator only ever needs the Context and the
// one value it is checking. Registry and Clock are the two external
// collaborators every entity validator is allowed to consult.
type Context struct {
	Registry catalog.Registry
	Clock    Clock

	Patient domain.PatientID

	DiagnosisIDs             map[domain.DiagnosisID]struct{}
	SpecimenIDs              map[domain.SpecimenID]struct{}
	DiagnosisICD10Codes      map[string]struct{}
	HistologyReportIDs       map[domain.HistologyReportID]struct{}
	NGSReportIDs             map[domain.SomaticNGSReportID]struct{}
	RecommendationIDs        map[domain.TherapyRecommendationID]struct{}
	CounsellingRequestIDs    map[domain.GeneticCounsellingRequestID]struct{}
	RebiopsyRequestIDs       map[domain.RebiopsyRequestID]struct{}
	StudyInclusionRequestIDs map[domain.StudyInclusionRequestID]struct{}
	ClaimIDs                 map[domain.ClaimID]struct{}
	TherapyRefs              map[domain.TherapyRef]struct{}
	VariantsByNGSReport       map[domain.SomaticNGSReportID]map[domain.VariantID]struct{}
}

// BuildContext derives the closed reference sets every entity validator
// needs, scanning the file exactly once per set.
func BuildContext(reg catalog.Registry, clock Clock, file domain.MTBFile) Context {
	ctx := Context{
		Registry:                 reg,
		Clock:                    clock,
		Patient:                  file.Patient.ID,
		DiagnosisIDs:             make(map[domain.DiagnosisID]struct{}, len(file.Diagnoses)),
		SpecimenIDs:              make(map[domain.SpecimenID]struct{}, len(file.Specimens)),
		DiagnosisICD10Codes:      make(map[string]struct{}, len(file.Diagnoses)),
		HistologyReportIDs:       make(map[domain.HistologyReportID]struct{}, len(file.HistologyReports)),
		NGSReportIDs:             make(map[domain.SomaticNGSReportID]struct{}, len(file.SomaticNGSReports)),
		RecommendationIDs:        make(map[domain.TherapyRecommendationID]struct{}, len(file.TherapyRecommendations)),
		CounsellingRequestIDs:    make(map[domain.GeneticCounsellingRequestID]struct{}, len(file.GeneticCounsellingRequests)),
		RebiopsyRequestIDs:       make(map[domain.RebiopsyRequestID]struct{}, len(file.RebiopsyRequests)),
		StudyInclusionRequestIDs: make(map[domain.StudyInclusionRequestID]struct{}, len(file.StudyInclusionRequests)),
		ClaimIDs:                 make(map[domain.ClaimID]struct{}, len(file.Claims)),
		TherapyRefs:              make(map[domain.TherapyRef]struct{}),
		VariantsByNGSReport:      make(map[domain.SomaticNGSReportID]map[domain.VariantID]struct{}, len(file.SomaticNGSReports)),
	}

	for _, d := range file.Diagnoses {
		ctx.DiagnosisIDs[d.ID] = struct{}{}
		if d.ICD10 != nil && !d.ICD10.IsZero() {
			ctx.DiagnosisICD10Codes[d.ICD10.Code] = struct{}{}
		}
	}
	for _, s := range file.Specimens {
		ctx.SpecimenIDs[s.ID] = struct{}{}
	}
	for _, h := range file.HistologyReports {
		ctx.HistologyReportIDs[h.ID] = struct{}{}
	}
	for _, r := range file.SomaticNGSReports {
		ctx.NGSReportIDs[r.ID] = struct{}{}
		variants := make(map[domain.VariantID]struct{}, len(r.Variants))
		for _, v := range r.Variants {
			variants[v.ID] = struct{}{}
		}
		ctx.VariantsByNGSReport[r.ID] = variants
	}
	for _, r := range file.TherapyRecommendations {
		ctx.RecommendationIDs[r.ID] = struct{}{}
	}
	for _, c := range file.GeneticCounsellingRequests {
		ctx.CounsellingRequestIDs[c.ID] = struct{}{}
	}
	for _, r := range file.RebiopsyRequests {
		ctx.RebiopsyRequestIDs[r.ID] = struct{}{}
	}
	for _, s := range file.StudyInclusionRequests {
		ctx.StudyInclusionRequestIDs[s.ID] = struct{}{}
	}
	for _, c := range file.Claims {
		ctx.ClaimIDs[c.ID] = struct{}{}
	}
	for _, t := range file.PreviousGuidelineTherapies {
		ctx.TherapyRefs[domain.TherapyRef(t.ID)] = struct{}{}
	}
	for _, t := range file.LastGuidelineTherapies {
		ctx.TherapyRefs[domain.TherapyRef(t.ID)] = struct{}{}
	}
	for _, t := range file.MolecularTherapies {
		ctx.TherapyRefs[domain.TherapyRef(t.ID)] = struct{}{}
	}

	return ctx
}
