package domain

// Diagnosis is a patient's oncological diagnosis, coded against ICD-10-GM
// and optionally ICD-O-3 topography.
type Diagnosis struct {
	ID                       DiagnosisID                 `json:"id" validate:"required"`
	Patient                  PatientID                   `json:"patient" validate:"required"`
	RecordedOn               *Date                       `json:"recordedOn,omitempty"`
	ICD10                    *Coding[ICD10GMCode]        `json:"icd10,omitempty"`
	ICDO3T                   *Coding[ICDO3TCode]         `json:"icdO3T,omitempty"`
	WHOGrade                 *Coding[FreeTextCode]       `json:"whoGrade,omitempty"`
	StatusHistory            []DiagnosisStatus           `json:"statusHistory,omitempty"`
	HistologyResults         []HistologyReportID         `json:"histologyResults,omitempty"`
	GuidelineTreatmentStatus *GuidelineTreatmentStatus   `json:"guidelineTreatmentStatus,omitempty"`
}

// DiagnosisStatus is one entry of a diagnosis's status history.
type DiagnosisStatus struct {
	Date   Date   `json:"date"`
	Status string `json:"status"`
}

// FamilyMemberDiagnosis records a relative's diagnosis relevant to the
// patient's case.
type FamilyMemberDiagnosis struct {
	ID           FamilyMemberDiagnosisID `json:"id" validate:"required"`
	Patient      PatientID               `json:"patient" validate:"required"`
	Relationship string                  `json:"relationship" validate:"required"`
}

// PreviousGuidelineTherapy is a guideline-conformant therapy the patient
// already completed before MTB referral.
type PreviousGuidelineTherapy struct {
	ID          PreviousGuidelineTherapyID `json:"id" validate:"required"`
	Patient     PatientID                  `json:"patient" validate:"required"`
	Diagnosis   DiagnosisID                `json:"diagnosis" validate:"required"`
	TherapyLine *int                       `json:"therapyLine,omitempty"`
	Medication  []Coding[ATCCode]          `json:"medication"`
}

// LastGuidelineTherapy is the most recent guideline therapy, with its
// period, stop reason, and response linkage (via Response.Therapy).
type LastGuidelineTherapy struct {
	ID            LastGuidelineTherapyID `json:"id" validate:"required"`
	Patient       PatientID              `json:"patient" validate:"required"`
	Diagnosis     DiagnosisID            `json:"diagnosis" validate:"required"`
	TherapyLine   *int                   `json:"therapyLine,omitempty"`
	Period        *Period                `json:"period,omitempty"`
	Medication    []Coding[ATCCode]      `json:"medication"`
	ReasonStopped string                 `json:"reasonStopped,omitempty"`
}

// ECOGStatus is a point-in-time performance status assessment.
type ECOGStatus struct {
	ID            ECOGStatusID `json:"id" validate:"required"`
	Patient       PatientID    `json:"patient" validate:"required"`
	EffectiveDate *Date        `json:"effectiveDate,omitempty"`
	Value         int          `json:"value" validate:"min=0,max=5"`
}
