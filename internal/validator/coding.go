package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dnpm-intake/mtbvalidate/internal/catalog"
	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
)

var versionSyntax = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

var structValidate = validator.New()

// tagCheck runs the go-playground/validator struct-tag pass (the
// `validate:"required"`/`validate:"min=...,max=..."` tags declared on the
// domain types) against v, surfacing any violation as an Error issue
// before the catalog-membership ladder runs.
func tagCheck(v interface{}, loc validation.Location) validation.Outcome[struct{}] {
	err := structValidate.Struct(v)
	if err == nil {
		return validation.Valid(struct{}{})
	}
	var issues []validation.Issue
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			issues = append(issues, validation.NewIssue(validation.Error, loc, fmt.Sprintf("%s: %s failed %q validation", loc.Attribute, fe.Field(), fe.Tag())))
		}
	} else {
		issues = append(issues, validation.NewIssue(validation.Error, loc, fmt.Sprintf("%s: struct validation failed: %v", loc.Attribute, err)))
	}
	return validation.Invalid[struct{}](issues...)
}

// versionedCoding runs the three-step ladder shared by every
// catalog-backed coding: version defined, version syntactically valid,
// code present in the catalog for that version. Each step fails Error.
func versionedCoding(version, code string, codesForVersion func(string) map[string]struct{}, loc validation.Location) validation.Outcome[struct{}] {
	step1 := validation.MustBe(version != "", validation.Error, loc, fmt.Sprintf("%s: version is required", loc.Attribute))
	return validation.AndThen(step1, func(struct{}) validation.Outcome[struct{}] {
		step2 := validation.MustBe(versionSyntax.MatchString(version), validation.Error, loc, fmt.Sprintf("%s: version %q is not syntactically valid", loc.Attribute, version))
		return validation.AndThen(step2, func(struct{}) validation.Outcome[struct{}] {
			codes := codesForVersion(version)
			_, present := codes[code]
			return validation.MustBe(present, validation.Error, loc, fmt.Sprintf("%s: code %q is not present in catalog version %q", loc.Attribute, code, version))
		})
	})
}

// ValidateICD10Coding checks a Coding[ICD10GMCode] against the registry,
// after a go-playground/validator struct-tag pass over c itself.
func ValidateICD10Coding(reg catalog.Registry, c domain.Coding[domain.ICD10GMCode], loc validation.Location) validation.Outcome[struct{}] {
	return validation.Combine(tagCheck(c, loc), versionedCoding(c.Version, c.Code, reg.ICD10Codes, loc))
}

// ValidateICDO3TCoding checks a Coding[ICDO3TCode] against the registry,
// after a go-playground/validator struct-tag pass over c itself.
func ValidateICDO3TCoding(reg catalog.Registry, c domain.Coding[domain.ICDO3TCode], loc validation.Location) validation.Outcome[struct{}] {
	return validation.Combine(tagCheck(c, loc), versionedCoding(c.Version, c.Code, reg.ICDO3TopographyCodes, loc))
}

// ValidateICDO3MCoding checks a Coding[ICDO3MCode] against the registry,
// after a go-playground/validator struct-tag pass over c itself.
func ValidateICDO3MCoding(reg catalog.Registry, c domain.Coding[domain.ICDO3MCode], loc validation.Location) validation.Outcome[struct{}] {
	return validation.Combine(tagCheck(c, loc), versionedCoding(c.Version, c.Code, reg.ICDO3MorphologyCodes, loc))
}

// ValidateATCCoding checks a Coding[ATCCode]'s code is present in the ATC
// catalog, after a go-playground/validator struct-tag pass over c itself;
// ATC codings carry no version, so catalog membership is the only other
// check.
func ValidateATCCoding(reg catalog.Registry, c domain.Coding[domain.ATCCode], loc validation.Location) validation.Outcome[struct{}] {
	_, present := reg.ATCCodes()[c.Code]
	return validation.Combine(
		tagCheck(c, loc),
		validation.MustBe(present, validation.Error, loc, fmt.Sprintf("%s: code %q is not present in the ATC catalog", loc.Attribute, c.Code)),
	)
}

// ValidateATCCodings validates each medication coding in a list, in order.
func ValidateATCCodings(reg catalog.Registry, kind, id, attr string, medication []domain.Coding[domain.ATCCode]) []validation.Issue {
	var issues []validation.Issue
	for i, m := range medication {
		loc := validation.Location{EntityKind: kind, EntityID: id, Attribute: fmt.Sprintf("%s[%d]", attr, i)}
		issues = append(issues, ValidateATCCoding(reg, m, loc).Issues()...)
	}
	return issues
}
