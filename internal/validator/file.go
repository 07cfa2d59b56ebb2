package validator

import (
	"github.com/dnpm-intake/mtbvalidate/internal/catalog"
	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
)

// DataQualityReport is C5's failure output: the patient the file belongs
// to and every issue raised against it, in a fixed entity order with
// input order preserved within each list.
type DataQualityReport struct {
	Patient domain.PatientID
	Issues  []validation.Issue
}

// Validate is the File Validator (C5). It always returns the same file it
// was given — MTB files are immutable values — together with a report.
// A nil report means the file is Valid: no Error or Fatal issue was
// raised (Warning and Info findings of a Valid file are not reported).
// A non-nil report carries every issue raised, Warning and Info included,
// and always contains at least one Error or Fatal issue.
func Validate(reg catalog.Registry, clock Clock, file domain.MTBFile) (domain.MTBFile, *DataQualityReport) {
	var issues []validation.Issue

	if file.Consent.Status == domain.ConsentRejected {
		issues = validateRejectedConsent(clock, file)
	} else {
		issues = validateActiveConsent(reg, clock, file)
	}

	for _, issue := range issues {
		if issue.Severity >= validation.Error {
			return file, &DataQualityReport{Patient: file.Patient.ID, Issues: issues}
		}
	}
	return file, nil
}

// validateRejectedConsent handles the rejected-consent mode: validate
// patient/consent/episode, then assert every medical list is absent or
// empty.
func validateRejectedConsent(clock Clock, file domain.MTBFile) []validation.Issue {
	ctx := Context{Patient: file.Patient.ID, Clock: clock}
	var issues []validation.Issue

	issues = append(issues, ValidatePatient(ctx, file.Patient).Issues()...)
	issues = append(issues, ValidateConsent(ctx, file.Consent).Issues()...)
	issues = append(issues, ValidateEpisode(ctx, file.Episode).Issues()...)

	for _, list := range file.MedicalListNames() {
		if list.Count > 0 {
			loc := validation.Location{EntityKind: "MTBFile", EntityID: string(file.Patient.ID), Attribute: list.Name}
			issues = append(issues, validation.NewIssue(validation.Fatal, loc, "medical data present despite rejected consent"))
		}
	}
	return issues
}

// requiredLists names the medical lists treated as required under active
// consent (Error, not Warning, when absent/empty).
var requiredLists = map[string]struct{}{
	"diagnoses": {},
	"responses": {},
}

// validateActiveConsent handles the active-consent mode: every medical
// list is validated in full.
func validateActiveConsent(reg catalog.Registry, clock Clock, file domain.MTBFile) []validation.Issue {
	ctx := BuildContext(reg, clock, file)
	var issues []validation.Issue

	issues = append(issues, ValidatePatient(ctx, file.Patient).Issues()...)
	issues = append(issues, ValidateConsent(ctx, file.Consent).Issues()...)
	issues = append(issues, ValidateEpisode(ctx, file.Episode).Issues()...)

	respondedTherapies := make(map[domain.TherapyRef]struct{}, len(file.Responses))
	for _, r := range file.Responses {
		respondedTherapies[r.Therapy] = struct{}{}
	}

	emptyListSeverity := func(name string) validation.Severity {
		if _, required := requiredLists[name]; required {
			return validation.Error
		}
		return validation.Warning
	}

	for _, list := range file.MedicalListNames() {
		if list.Count == 0 {
			loc := validation.Location{EntityKind: "MTBFile", EntityID: string(file.Patient.ID), Attribute: list.Name}
			issues = append(issues, validation.NewIssue(emptyListSeverity(list.Name), loc, list.Name+" is empty"))
			continue
		}

		switch list.Name {
		case "diagnoses":
			issues = append(issues, validation.ValidateEach(file.Diagnoses, func(d domain.Diagnosis) validation.Outcome[domain.Diagnosis] {
				return ValidateDiagnosis(ctx, d)
			}).Issues()...)
		case "familyMemberDiagnoses":
			issues = append(issues, validation.ValidateEach(file.FamilyMemberDiagnoses, func(f domain.FamilyMemberDiagnosis) validation.Outcome[domain.FamilyMemberDiagnosis] {
				return ValidateFamilyMemberDiagnosis(ctx, f)
			}).Issues()...)
		case "previousGuidelineTherapies":
			issues = append(issues, validation.ValidateEach(file.PreviousGuidelineTherapies, func(t domain.PreviousGuidelineTherapy) validation.Outcome[domain.PreviousGuidelineTherapy] {
				return ValidatePreviousGuidelineTherapy(ctx, t)
			}).Issues()...)
		case "lastGuidelineTherapies":
			issues = append(issues, validation.ValidateEach(file.LastGuidelineTherapies, func(t domain.LastGuidelineTherapy) validation.Outcome[domain.LastGuidelineTherapy] {
				_, matched := respondedTherapies[domain.TherapyRef(t.ID)]
				return ValidateLastGuidelineTherapy(ctx, t, matched)
			}).Issues()...)
		case "ecogStatus":
			issues = append(issues, validation.ValidateEach(file.ECOGStatus, func(e domain.ECOGStatus) validation.Outcome[domain.ECOGStatus] {
				return ValidateECOGStatus(ctx, e)
			}).Issues()...)
		case "specimens":
			issues = append(issues, validation.ValidateEach(file.Specimens, func(s domain.Specimen) validation.Outcome[domain.Specimen] {
				return ValidateSpecimen(ctx, s)
			}).Issues()...)
		case "tumorCellContents":
			issues = append(issues, validation.ValidateEach(file.TumorCellContents, func(c domain.TumorCellContent) validation.Outcome[domain.TumorCellContent] {
				return ValidateTumorCellContent(ctx, c)
			}).Issues()...)
		case "tumorMorphologies":
			issues = append(issues, validation.ValidateEach(file.TumorMorphologies, func(m domain.TumorMorphology) validation.Outcome[domain.TumorMorphology] {
				return ValidateTumorMorphology(ctx, m)
			}).Issues()...)
		case "histologyReports":
			issues = append(issues, validation.ValidateEach(file.HistologyReports, func(h domain.HistologyReport) validation.Outcome[domain.HistologyReport] {
				return ValidateHistologyReport(ctx, h)
			}).Issues()...)
		case "molecularPathologyFindings":
			issues = append(issues, validation.ValidateEach(file.MolecularPathologyFindings, func(f domain.MolecularPathologyFinding) validation.Outcome[domain.MolecularPathologyFinding] {
				return ValidateMolecularPathologyFinding(ctx, f)
			}).Issues()...)
		case "ngsReports":
			issues = append(issues, validation.ValidateEach(file.SomaticNGSReports, func(r domain.SomaticNGSReport) validation.Outcome[domain.SomaticNGSReport] {
				return ValidateSomaticNGSReport(ctx, r)
			}).Issues()...)
		case "carePlans":
			issues = append(issues, validation.ValidateEach(file.CarePlans, func(c domain.CarePlan) validation.Outcome[domain.CarePlan] {
				return ValidateCarePlan(ctx, c)
			}).Issues()...)
		case "recommendations":
			issues = append(issues, validation.ValidateEach(file.TherapyRecommendations, func(r domain.TherapyRecommendation) validation.Outcome[domain.TherapyRecommendation] {
				return ValidateTherapyRecommendation(ctx, r)
			}).Issues()...)
		case "geneticCounsellingRequests":
			issues = append(issues, validation.ValidateEach(file.GeneticCounsellingRequests, func(r domain.GeneticCounsellingRequest) validation.Outcome[domain.GeneticCounsellingRequest] {
				return ValidateGeneticCounsellingRequest(ctx, r)
			}).Issues()...)
		case "rebiopsyRequests":
			issues = append(issues, validation.ValidateEach(file.RebiopsyRequests, func(r domain.RebiopsyRequest) validation.Outcome[domain.RebiopsyRequest] {
				return ValidateRebiopsyRequest(ctx, r)
			}).Issues()...)
		case "histologyReevaluationRequests":
			issues = append(issues, validation.ValidateEach(file.HistologyReevaluationRequests, func(r domain.HistologyReevaluationRequest) validation.Outcome[domain.HistologyReevaluationRequest] {
				return ValidateHistologyReevaluationRequest(ctx, r)
			}).Issues()...)
		case "studyInclusionRequests":
			issues = append(issues, validation.ValidateEach(file.StudyInclusionRequests, func(r domain.StudyInclusionRequest) validation.Outcome[domain.StudyInclusionRequest] {
				return ValidateStudyInclusionRequest(ctx, r)
			}).Issues()...)
		case "claims":
			issues = append(issues, validation.ValidateEach(file.Claims, func(c domain.Claim) validation.Outcome[domain.Claim] {
				return ValidateClaim(ctx, c)
			}).Issues()...)
		case "claimResponses":
			issues = append(issues, validation.ValidateEach(file.ClaimResponses, func(r domain.ClaimResponse) validation.Outcome[domain.ClaimResponse] {
				return ValidateClaimResponse(ctx, r)
			}).Issues()...)
		case "molecularTherapies":
			issues = append(issues, validation.ValidateEach(file.MolecularTherapies, func(t domain.MolecularTherapy) validation.Outcome[domain.MolecularTherapy] {
				return ValidateMolecularTherapy(ctx, t)
			}).Issues()...)
		case "responses":
			issues = append(issues, validation.ValidateEach(file.Responses, func(r domain.Response) validation.Outcome[domain.Response] {
				return ValidateResponse(ctx, r)
			}).Issues()...)
		}
	}

	return issues
}
