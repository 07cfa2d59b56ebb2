package domain

// CarePlan is the MTB's therapy care plan for a diagnosis: either it
// records that no target was found, or it carries at least one
// recommendation, never both. ValidateCarePlan enforces this
// mutual-exclusion invariant.
type CarePlan struct {
	ID                       CarePlanID                     `json:"id" validate:"required"`
	Patient                  PatientID                      `json:"patient" validate:"required"`
	Diagnosis                DiagnosisID                    `json:"diagnosis" validate:"required"`
	IssuedOn                 *Date                           `json:"issuedOn,omitempty"`
	NoTargetFinding          bool                            `json:"noTargetFinding,omitempty"`
	Recommendations          []TherapyRecommendationID       `json:"recommendations,omitempty"`
	CounsellingRequest       *GeneticCounsellingRequestID     `json:"counsellingRequest,omitempty"`
	RebiopsyRequests         []RebiopsyRequestID              `json:"rebiopsyRequests,omitempty"`
	StudyInclusionRequest    *StudyInclusionRequestID         `json:"studyInclusionRequest,omitempty"`
}

// TherapyRecommendation proposes a molecularly-informed therapy for a
// diagnosis, optionally grounded in an NGS report's supporting variants.
type TherapyRecommendation struct {
	ID                 TherapyRecommendationID  `json:"id" validate:"required"`
	Patient            PatientID                `json:"patient" validate:"required"`
	Diagnosis          DiagnosisID              `json:"diagnosis" validate:"required"`
	IssuedOn           *Date                    `json:"issuedOn,omitempty"`
	Medication         []Coding[ATCCode]        `json:"medication"`
	Priority           *RecommendationPriority  `json:"priority,omitempty"`
	LevelOfEvidence    *LevelOfEvidence         `json:"levelOfEvidence,omitempty"`
	NGSReport          *SomaticNGSReportID      `json:"ngsReport,omitempty"`
	SupportingVariants []VariantID              `json:"supportingVariants,omitempty"`
}

// GeneticCounsellingRequest asks for genetic counselling related to a
// specimen.
type GeneticCounsellingRequest struct {
	ID       GeneticCounsellingRequestID `json:"id" validate:"required"`
	Patient  PatientID                   `json:"patient" validate:"required"`
	Specimen SpecimenID                  `json:"specimen,omitempty"`
	IssuedOn *Date                       `json:"issuedOn,omitempty"`
}

// RebiopsyRequest asks for a further biopsy of a specimen.
type RebiopsyRequest struct {
	ID       RebiopsyRequestID `json:"id" validate:"required"`
	Patient  PatientID         `json:"patient" validate:"required"`
	Specimen SpecimenID        `json:"specimen,omitempty"`
	IssuedOn *Date             `json:"issuedOn,omitempty"`
}

// HistologyReevaluationRequest asks for a specimen's histology to be
// reassessed.
type HistologyReevaluationRequest struct {
	ID       HistologyReevaluationRequestID `json:"id" validate:"required"`
	Patient  PatientID                      `json:"patient" validate:"required"`
	Specimen SpecimenID                     `json:"specimen,omitempty"`
	IssuedOn *Date                          `json:"issuedOn,omitempty"`
}

// StudyInclusionRequest asks for enrollment in a clinical trial identified
// by its NCT number.
type StudyInclusionRequest struct {
	ID         StudyInclusionRequestID `json:"id" validate:"required"`
	Patient    PatientID               `json:"patient" validate:"required"`
	Diagnosis  DiagnosisID             `json:"diagnosis,omitempty"`
	NCTNumber  string                  `json:"nctNumber" validate:"required"`
	IssuedOn   *Date                   `json:"issuedOn,omitempty"`
}
