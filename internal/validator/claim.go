package validator

import (
	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
)

// ValidateClaim enforces: patient ref (Fatal);
// therapyRecommendation ref (Fatal).
func ValidateClaim(ctx Context, c domain.Claim) validation.Outcome[domain.Claim] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "Claim", EntityID: string(c.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(c.Patient == ctx.Patient, validation.Fatal, loc("patient"), "claim.patient does not resolve"),
		validation.InSet(c.TherapyRecommendation, ctx.RecommendationIDs, loc("therapyRecommendation"), "claim.therapyRecommendation does not resolve"),
	)
	return validation.Seal(check, c)
}

// ValidateClaimResponse enforces: patient+claim refs
// (Fatal); if status=rejected then reason (Warning).
func ValidateClaimResponse(ctx Context, r domain.ClaimResponse) validation.Outcome[domain.ClaimResponse] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "ClaimResponse", EntityID: string(r.ID), Attribute: attr}
	}
	check := validation.Combine(
		validation.MustBe(r.Patient == ctx.Patient, validation.Fatal, loc("patient"), "claimResponse.patient does not resolve"),
		validation.InSet(r.Claim, ctx.ClaimIDs, loc("claim"), "claimResponse.claim does not resolve"),
	)
	if r.Status == domain.ClaimResponseRejected {
		check = validation.Combine(check, validation.ShouldBe(r.Reason != "", loc("reason"), "reason is recommended when status is rejected"))
	}
	return validation.Seal(check, r)
}
