package validator

import (
	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
)

// ValidateMolecularTherapy enforces, for the tagged
// union: patient ref (Fatal); basedOn recommendation ref (Fatal); each
// medication coding valid (for non-NotDone variants).
func ValidateMolecularTherapy(ctx Context, t domain.MolecularTherapy) validation.Outcome[domain.MolecularTherapy] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "MolecularTherapy", EntityID: string(t.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(t.Patient == ctx.Patient, validation.Fatal, loc("patient"), "molecularTherapy.patient does not resolve"),
		validation.InSet(t.BasedOn, ctx.RecommendationIDs, loc("basedOn"), "molecularTherapy.basedOn does not resolve"),
	)

	switch t.Status {
	case domain.MolecularTherapyNotDone:
		check = validation.Combine(check, validation.ShouldBe(t.NotDoneReason != "", loc("notDoneReason"), "notDoneReason is recommended"))
	case domain.MolecularTherapyOngoing, domain.MolecularTherapyCompleted:
		check = validation.Combine(check, validation.ShouldBe(t.Period != nil, loc("period"), "period is recommended"))
		for _, issue := range ValidateATCCodings(ctx.Registry, "MolecularTherapy", string(t.ID), "medication", t.Medication) {
			check = check.WithIssues(issue)
		}
	case domain.MolecularTherapyStopped:
		check = validation.Combine(check,
			validation.ShouldBe(t.Period != nil, loc("period"), "period is recommended"),
			validation.ShouldBe(t.ReasonStopped != "", loc("reasonStopped"), "reasonStopped is recommended"),
		)
		for _, issue := range ValidateATCCodings(ctx.Registry, "MolecularTherapy", string(t.ID), "medication", t.Medication) {
			check = check.WithIssues(issue)
		}
	}

	return validation.Seal(check, t)
}

// ValidateResponse enforces: patient ref (Fatal);
// therapy ref resolves against the union of previous+last+molecular
// therapy ids (Fatal).
func ValidateResponse(ctx Context, r domain.Response) validation.Outcome[domain.Response] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "Response", EntityID: string(r.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(r.Patient == ctx.Patient, validation.Fatal, loc("patient"), "response.patient does not resolve"),
		validation.InSet(r.Therapy, ctx.TherapyRefs, loc("therapy"), "response.therapy does not resolve"),
	)
	return validation.Seal(check, r)
}
