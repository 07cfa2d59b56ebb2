package domain

// Gender is the patient's administrative gender.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	default:
		return false
	}
}

// ConsentStatus governs whether medical data may be present in the file
// at all.
type ConsentStatus string

const (
	ConsentActive   ConsentStatus = "active"
	ConsentRejected ConsentStatus = "rejected"
)

func (s ConsentStatus) IsValid() bool {
	switch s {
	case ConsentActive, ConsentRejected:
		return true
	default:
		return false
	}
}

// GuidelineTreatmentStatus describes how far guideline therapy options have
// been exhausted for a diagnosis.
type GuidelineTreatmentStatus string

const (
	GuidelineTreatmentExhausted             GuidelineTreatmentStatus = "exhausted"
	GuidelineTreatmentNonExhausted           GuidelineTreatmentStatus = "non-exhausted"
	GuidelineTreatmentImpossible             GuidelineTreatmentStatus = "impossible"
	GuidelineTreatmentNoGuidelinesAvailable  GuidelineTreatmentStatus = "no-guidelines-available"
	GuidelineTreatmentUnknown                GuidelineTreatmentStatus = "unknown"
)

func (s GuidelineTreatmentStatus) IsValid() bool {
	switch s {
	case GuidelineTreatmentExhausted, GuidelineTreatmentNonExhausted,
		GuidelineTreatmentImpossible, GuidelineTreatmentNoGuidelinesAvailable,
		GuidelineTreatmentUnknown:
		return true
	default:
		return false
	}
}

// TumorCellContentMethod is the method used to estimate tumor cell content.
type TumorCellContentMethod string

const (
	TCCMethodHistologic    TumorCellContentMethod = "histologic"
	TCCMethodBioinformatic TumorCellContentMethod = "bioinformatic"
)

func (m TumorCellContentMethod) IsValid() bool {
	switch m {
	case TCCMethodHistologic, TCCMethodBioinformatic:
		return true
	default:
		return false
	}
}

// VariantKind distinguishes the five NGS finding shapes.
type VariantKind string

const (
	VariantSimple     VariantKind = "simple"
	VariantCNV        VariantKind = "cnv"
	VariantDNAFusion  VariantKind = "dna-fusion"
	VariantRNAFusion  VariantKind = "rna-fusion"
	VariantRNASeq     VariantKind = "rna-seq"
)

func (k VariantKind) IsValid() bool {
	switch k {
	case VariantSimple, VariantCNV, VariantDNAFusion, VariantRNAFusion, VariantRNASeq:
		return true
	default:
		return false
	}
}

// RecommendationPriority grades how urgently a TherapyRecommendation should
// be acted on.
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

// LevelOfEvidence is a coded grade of supporting evidence strength.
type LevelOfEvidence string

// ClaimResponseStatus is the insurer's decision on a Claim.
type ClaimResponseStatus string

const (
	ClaimResponseAccepted ClaimResponseStatus = "accepted"
	ClaimResponseRejected ClaimResponseStatus = "rejected"
	ClaimResponseUnknown  ClaimResponseStatus = "unknown"
)

func (s ClaimResponseStatus) IsValid() bool {
	switch s {
	case ClaimResponseAccepted, ClaimResponseRejected, ClaimResponseUnknown:
		return true
	default:
		return false
	}
}

// MolecularTherapyStatus is MolecularTherapy's tagged-union discriminant.
type MolecularTherapyStatus string

const (
	MolecularTherapyNotDone   MolecularTherapyStatus = "not-done"
	MolecularTherapyOngoing   MolecularTherapyStatus = "ongoing"
	MolecularTherapyStopped   MolecularTherapyStatus = "stopped"
	MolecularTherapyCompleted MolecularTherapyStatus = "completed"
)

func (s MolecularTherapyStatus) IsValid() bool {
	switch s {
	case MolecularTherapyNotDone, MolecularTherapyOngoing, MolecularTherapyStopped, MolecularTherapyCompleted:
		return true
	default:
		return false
	}
}

// ResponseValue is the RECIST assessment of a molecular therapy's effect.
type ResponseValue string

const (
	RECISTCompleteResponse   ResponseValue = "complete-response"
	RECISTPartialResponse    ResponseValue = "partial-response"
	RECISTStableDisease      ResponseValue = "stable-disease"
	RECISTProgressiveDisease ResponseValue = "progressive-disease"
	RECISTNotAssessable      ResponseValue = "not-assessable"
)

func (v ResponseValue) IsValid() bool {
	switch v {
	case RECISTCompleteResponse, RECISTPartialResponse, RECISTStableDisease,
		RECISTProgressiveDisease, RECISTNotAssessable:
		return true
	default:
		return false
	}
}
