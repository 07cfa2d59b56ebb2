package validator

import (
	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
)

// ValidatePatient enforces the Patient rules: birthDate defined (Error);
// insurance defined (Warning); dateOfDeath, if set, after birthDate and
// not in the future (Error).
func ValidatePatient(ctx Context, p domain.Patient) validation.Outcome[domain.Patient] {
	loc := func(attr string) validation.Location {
		return validation.Location{EntityKind: "Patient", EntityID: string(p.ID), Attribute: attr}
	}

	check := validation.Combine(
		validation.MustBe(p.BirthDate != nil && !p.BirthDate.IsZero(), validation.Error, loc("birthDate"), "birthDate is required"),
		validation.MustBe(p.Gender.IsValid(), validation.Error, loc("gender"), "gender is not a recognized value"),
		validation.ShouldBe(p.Insurance != "", loc("insurance"), "insurance is recommended"),
	)

	if p.DateOfDeath != nil && !p.DateOfDeath.IsZero() {
		afterBirth := p.BirthDate != nil && p.DateOfDeath.After(*p.BirthDate)
		notFuture := !p.DateOfDeath.Time().After(ctx.Clock.Now())
		check = validation.Combine(check,
			validation.MustBe(afterBirth, validation.Error, loc("dateOfDeath"), "dateOfDeath must be after birthDate"),
			validation.MustBe(notFuture, validation.Error, loc("dateOfDeath"), "dateOfDeath must not be in the future"),
		)
	}

	return validation.Seal(check, p)
}

// ValidateConsent implements the Consent rules: patient resolves (Fatal);
// status is a recognized value (Error).
func ValidateConsent(ctx Context, c domain.Consent) validation.Outcome[domain.Consent] {
	patientLoc := validation.Location{EntityKind: "Consent", EntityID: string(c.ID), Attribute: "patient"}
	statusLoc := validation.Location{EntityKind: "Consent", EntityID: string(c.ID), Attribute: "status"}
	check := validation.Combine(
		validation.MatchesEqual(c.Patient, ctx.Patient, patientLoc, "consent.patient does not match the file's patient"),
		validation.MustBe(c.Status.IsValid(), validation.Error, statusLoc, "status is not a recognized value"),
	)
	return validation.Seal(check, c)
}

// ValidateEpisode implements the MTBEpisode rule: patient resolves (Fatal).
func ValidateEpisode(ctx Context, e domain.MTBEpisode) validation.Outcome[domain.MTBEpisode] {
	loc := validation.Location{EntityKind: "MTBEpisode", EntityID: string(e.ID), Attribute: "patient"}
	check := validation.MatchesEqual(e.Patient, ctx.Patient, loc, "episode.patient does not match the file's patient")
	return validation.Seal(check, e)
}
