package validator

import (
	"testing"
	"time"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
)

func testContext() Context {
	return Context{Patient: "P1", Registry: nil, DiagnosisIDs: map[domain.DiagnosisID]struct{}{}}
}

func TestValidatePatient_RejectsUnrecognizedGender(t *testing.T) {
	bd := domain.NewYearMonth(1970, time.January)
	p := domain.Patient{ID: "P1", Gender: domain.Gender("invalid-value"), BirthDate: &bd}

	outcome := ValidatePatient(testContext(), p)
	if !hasIssueAt(outcome.Issues(), validation.Error, "Patient", "P1", "gender") {
		t.Errorf("expected Error at (Patient, P1, gender), got %+v", outcome.Issues())
	}
}

func TestValidatePatient_AcceptsEachKnownGender(t *testing.T) {
	bd := domain.NewYearMonth(1970, time.January)
	genders := []domain.Gender{domain.GenderMale, domain.GenderFemale, domain.GenderOther, domain.GenderUnknown}
	for _, g := range genders {
		p := domain.Patient{ID: "P1", Gender: g, BirthDate: &bd}
		outcome := ValidatePatient(testContext(), p)
		if hasIssueAt(outcome.Issues(), validation.Error, "Patient", "P1", "gender") {
			t.Errorf("gender %q: unexpected Error at (Patient, P1, gender)", g)
		}
	}
}

func TestValidateConsent_RejectsUnrecognizedStatus(t *testing.T) {
	c := domain.Consent{ID: "C1", Patient: "P1", Status: domain.ConsentStatus("bogus")}

	outcome := ValidateConsent(testContext(), c)
	if !hasIssueAt(outcome.Issues(), validation.Error, "Consent", "C1", "status") {
		t.Errorf("expected Error at (Consent, C1, status), got %+v", outcome.Issues())
	}
}

func TestValidateConsent_AcceptsKnownStatuses(t *testing.T) {
	for _, s := range []domain.ConsentStatus{domain.ConsentActive, domain.ConsentRejected} {
		c := domain.Consent{ID: "C1", Patient: "P1", Status: s}
		outcome := ValidateConsent(testContext(), c)
		if hasIssueAt(outcome.Issues(), validation.Error, "Consent", "C1", "status") {
			t.Errorf("status %q: unexpected Error at (Consent, C1, status)", s)
		}
	}
}
