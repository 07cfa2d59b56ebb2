package domain

// MTBFile is the root aggregate consumed by the file validator (C5): a
// single patient's case together with the optional lists of every medical
// entity kind. All lists are nil when the corresponding data was never
// collected; under a rejected consent, every list must be absent or
// empty.
type MTBFile struct {
	Patient Patient    `json:"patient"`
	Consent Consent    `json:"consent"`
	Episode MTBEpisode `json:"episode"`

	Diagnoses                      []Diagnosis                      `json:"diagnoses,omitempty"`
	FamilyMemberDiagnoses           []FamilyMemberDiagnosis           `json:"familyMemberDiagnoses,omitempty"`
	PreviousGuidelineTherapies      []PreviousGuidelineTherapy        `json:"previousGuidelineTherapies,omitempty"`
	LastGuidelineTherapies          []LastGuidelineTherapy            `json:"lastGuidelineTherapies,omitempty"`
	ECOGStatus                      []ECOGStatus                      `json:"ecogStatus,omitempty"`
	Specimens                       []Specimen                        `json:"specimens,omitempty"`
	TumorCellContents               []TumorCellContent                `json:"tumorCellContents,omitempty"`
	TumorMorphologies               []TumorMorphology                 `json:"tumorMorphologies,omitempty"`
	HistologyReports                []HistologyReport                 `json:"histologyReports,omitempty"`
	MolecularPathologyFindings      []MolecularPathologyFinding       `json:"molecularPathologyFindings,omitempty"`
	SomaticNGSReports                []SomaticNGSReport                `json:"ngsReports,omitempty"`
	CarePlans                        []CarePlan                        `json:"carePlans,omitempty"`
	TherapyRecommendations           []TherapyRecommendation           `json:"recommendations,omitempty"`
	GeneticCounsellingRequests       []GeneticCounsellingRequest       `json:"geneticCounsellingRequests,omitempty"`
	RebiopsyRequests                 []RebiopsyRequest                 `json:"rebiopsyRequests,omitempty"`
	HistologyReevaluationRequests    []HistologyReevaluationRequest    `json:"histologyReevaluationRequests,omitempty"`
	StudyInclusionRequests           []StudyInclusionRequest           `json:"studyInclusionRequests,omitempty"`
	Claims                           []Claim                           `json:"claims,omitempty"`
	ClaimResponses                   []ClaimResponse                   `json:"claimResponses,omitempty"`
	MolecularTherapies                []MolecularTherapy                `json:"molecularTherapies,omitempty"`
	Responses                         []Response                        `json:"responses,omitempty"`
}

// MedicalListNames returns, in the fixed declaration order above, the
// name of every optional medical list alongside whether it is populated.
// The file validator uses this both for the rejected-consent "must be
// empty" gate and for the required/recommended-list gate under active
// consent.
func (f MTBFile) MedicalListNames() []MedicalList {
	return []MedicalList{
		{"diagnoses", len(f.Diagnoses)},
		{"familyMemberDiagnoses", len(f.FamilyMemberDiagnoses)},
		{"previousGuidelineTherapies", len(f.PreviousGuidelineTherapies)},
		{"lastGuidelineTherapies", len(f.LastGuidelineTherapies)},
		{"ecogStatus", len(f.ECOGStatus)},
		{"specimens", len(f.Specimens)},
		{"tumorCellContents", len(f.TumorCellContents)},
		{"tumorMorphologies", len(f.TumorMorphologies)},
		{"histologyReports", len(f.HistologyReports)},
		{"molecularPathologyFindings", len(f.MolecularPathologyFindings)},
		{"ngsReports", len(f.SomaticNGSReports)},
		{"carePlans", len(f.CarePlans)},
		{"recommendations", len(f.TherapyRecommendations)},
		{"geneticCounsellingRequests", len(f.GeneticCounsellingRequests)},
		{"rebiopsyRequests", len(f.RebiopsyRequests)},
		{"histologyReevaluationRequests", len(f.HistologyReevaluationRequests)},
		{"studyInclusionRequests", len(f.StudyInclusionRequests)},
		{"claims", len(f.Claims)},
		{"claimResponses", len(f.ClaimResponses)},
		{"molecularTherapies", len(f.MolecularTherapies)},
		{"responses", len(f.Responses)},
	}
}

// MedicalList names one of MTBFile's optional lists and how many elements
// it carries.
type MedicalList struct {
	Name  string
	Count int
}
