package validator

import (
	"regexp"
	"strconv"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
)

// ValidateCarePlan implements the CarePlan rules: patient+
// diagnosis refs (Fatal); issuedOn (Warning); the mutually-exclusive pair
// (noTargetFinding set ^ recommendations non-empty); all optional request
// refs resolve (Fatal) when given.
func ValidateCarePlan(ctx Context, c domain.CarePlan) validation.Outcome[domain.CarePlan] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "CarePlan", EntityID: string(c.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(c.Patient == ctx.Patient, validation.Fatal, loc("patient"), "carePlan.patient does not resolve"),
		validation.InSet(c.Diagnosis, ctx.DiagnosisIDs, loc("diagnosis"), "carePlan.diagnosis does not resolve"),
		validation.ShouldBe(c.IssuedOn != nil && !c.IssuedOn.IsZero(), loc("issuedOn"), "issuedOn is recommended"),
	)

	hasRecommendations := len(c.Recommendations) > 0
	switch {
	case c.NoTargetFinding && hasRecommendations:
		check = validation.Combine(check, validation.MustBe(false, validation.Error, loc("recommendations"), "recommendations must be empty when noTargetFinding is set"))
	case !c.NoTargetFinding && !hasRecommendations:
		check = validation.Combine(check, validation.MustBe(false, validation.Error, loc("recommendations"), "either noTargetFinding or at least one recommendation is required"))
	}

	for i, r := range c.Recommendations {
		itemLoc := validation.Location{EntityKind: "CarePlan", EntityID: string(c.ID), Attribute: "recommendations[" + strconv.Itoa(i) + "]"}
		check = validation.Combine(check, validation.InSet(r, ctx.RecommendationIDs, itemLoc, "recommendations reference does not resolve"))
	}
	if c.CounsellingRequest != nil {
		check = validation.Combine(check, validation.InSet(*c.CounsellingRequest, ctx.CounsellingRequestIDs, loc("counsellingRequest"), "counsellingRequest does not resolve"))
	}
	for i, r := range c.RebiopsyRequests {
		itemLoc := validation.Location{EntityKind: "CarePlan", EntityID: string(c.ID), Attribute: "rebiopsyRequests[" + strconv.Itoa(i) + "]"}
		check = validation.Combine(check, validation.InSet(r, ctx.RebiopsyRequestIDs, itemLoc, "rebiopsyRequests reference does not resolve"))
	}
	if c.StudyInclusionRequest != nil {
		check = validation.Combine(check, validation.InSet(*c.StudyInclusionRequest, ctx.StudyInclusionRequestIDs, loc("studyInclusionRequest"), "studyInclusionRequest does not resolve"))
	}

	return validation.Seal(check, c)
}

// ValidateTherapyRecommendation enforces: patient+
// diagnosis refs (Fatal); issuedOn (Warning); each medication coding
// valid; priority/LoE (Warning each); ngsReport ref (Warning if missing,
// Fatal if present but unresolved); supportingVariants (Warning if
// absent; each resolved ref must name a variant inside the referenced NGS
// report, Fatal otherwise).
func ValidateTherapyRecommendation(ctx Context, r domain.TherapyRecommendation) validation.Outcome[domain.TherapyRecommendation] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "TherapyRecommendation", EntityID: string(r.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(r.Patient == ctx.Patient, validation.Fatal, loc("patient"), "therapyRecommendation.patient does not resolve"),
		validation.InSet(r.Diagnosis, ctx.DiagnosisIDs, loc("diagnosis"), "therapyRecommendation.diagnosis does not resolve"),
		validation.ShouldBe(r.IssuedOn != nil && !r.IssuedOn.IsZero(), loc("issuedOn"), "issuedOn is recommended"),
		validation.ShouldBe(r.Priority != nil, loc("priority"), "priority is recommended"),
		validation.ShouldBe(r.LevelOfEvidence != nil, loc("levelOfEvidence"), "levelOfEvidence is recommended"),
	)
	for _, issue := range ValidateATCCodings(ctx.Registry, "TherapyRecommendation", string(r.ID), "medication", r.Medication) {
		check = check.WithIssues(issue)
	}

	if r.NGSReport == nil {
		check = check.WithIssues(validation.NewIssue(validation.Warning, loc("ngsReport"), "ngsReport is recommended"))
	} else {
		check = validation.Combine(check, validation.InSet(*r.NGSReport, ctx.NGSReportIDs, loc("ngsReport"), "ngsReport does not resolve"))
	}

	if len(r.SupportingVariants) == 0 {
		check = check.WithIssues(validation.NewIssue(validation.Warning, loc("supportingVariants"), "supportingVariants is recommended"))
	} else if r.NGSReport != nil {
		variants := ctx.VariantsByNGSReport[*r.NGSReport]
		for i, v := range r.SupportingVariants {
			itemLoc := validation.Location{EntityKind: "TherapyRecommendation", EntityID: string(r.ID), Attribute: "supportingVariants[" + strconv.Itoa(i) + "]"}
			check = validation.Combine(check, validation.InSet(v, variants, itemLoc, "supportingVariants reference does not resolve within the referenced ngsReport"))
		}
	}

	return validation.Seal(check, r)
}

// ValidateGeneticCounsellingRequest enforces: patient
// ref (Fatal); specimen ref where given (Fatal); issuedOn (Warning).
func ValidateGeneticCounsellingRequest(ctx Context, r domain.GeneticCounsellingRequest) validation.Outcome[domain.GeneticCounsellingRequest] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "GeneticCounsellingRequest", EntityID: string(r.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(r.Patient == ctx.Patient, validation.Fatal, loc("patient"), "geneticCounsellingRequest.patient does not resolve"),
		validation.ShouldBe(r.IssuedOn != nil && !r.IssuedOn.IsZero(), loc("issuedOn"), "issuedOn is recommended"),
	)
	if r.Specimen != "" {
		check = validation.Combine(check, validation.InSet(r.Specimen, ctx.SpecimenIDs, loc("specimen"), "geneticCounsellingRequest.specimen does not resolve"))
	}
	return validation.Seal(check, r)
}

// ValidateRebiopsyRequest mirrors ValidateGeneticCounsellingRequest's
// shape.
func ValidateRebiopsyRequest(ctx Context, r domain.RebiopsyRequest) validation.Outcome[domain.RebiopsyRequest] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "RebiopsyRequest", EntityID: string(r.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(r.Patient == ctx.Patient, validation.Fatal, loc("patient"), "rebiopsyRequest.patient does not resolve"),
		validation.ShouldBe(r.IssuedOn != nil && !r.IssuedOn.IsZero(), loc("issuedOn"), "issuedOn is recommended"),
	)
	if r.Specimen != "" {
		check = validation.Combine(check, validation.InSet(r.Specimen, ctx.SpecimenIDs, loc("specimen"), "rebiopsyRequest.specimen does not resolve"))
	}
	return validation.Seal(check, r)
}

// ValidateHistologyReevaluationRequest mirrors
// ValidateGeneticCounsellingRequest's shape.
func ValidateHistologyReevaluationRequest(ctx Context, r domain.HistologyReevaluationRequest) validation.Outcome[domain.HistologyReevaluationRequest] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "HistologyReevaluationRequest", EntityID: string(r.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(r.Patient == ctx.Patient, validation.Fatal, loc("patient"), "histologyReevaluationRequest.patient does not resolve"),
		validation.ShouldBe(r.IssuedOn != nil && !r.IssuedOn.IsZero(), loc("issuedOn"), "issuedOn is recommended"),
	)
	if r.Specimen != "" {
		check = validation.Combine(check, validation.InSet(r.Specimen, ctx.SpecimenIDs, loc("specimen"), "histologyReevaluationRequest.specimen does not resolve"))
	}
	return validation.Seal(check, r)
}

var nctPattern = regexp.MustCompile(`^NCT\d{8}$`)

// ValidateStudyInclusionRequest enforces: patient ref
// (Fatal); nctNumber matches NCT\d{8} (Error); issuedOn (Warning).
func ValidateStudyInclusionRequest(ctx Context, r domain.StudyInclusionRequest) validation.Outcome[domain.StudyInclusionRequest] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "StudyInclusionRequest", EntityID: string(r.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(r.Patient == ctx.Patient, validation.Fatal, loc("patient"), "studyInclusionRequest.patient does not resolve"),
		validation.MustBe(nctPattern.MatchString(r.NCTNumber), validation.Error, loc("nctNumber"), "nctNumber must match NCT followed by 8 digits"),
		validation.ShouldBe(r.IssuedOn != nil && !r.IssuedOn.IsZero(), loc("issuedOn"), "issuedOn is recommended"),
	)
	return validation.Seal(check, r)
}
