// Package domain holds the typed MTB data model: identifiers, coded values,
// enumerations and the entity kinds of an MTB file.
package domain

// Identifier kinds. Each is a distinct named string type so a value of one
// kind can never be assigned to a field expecting another kind without an
// explicit conversion — the compiler enforces that identifiers stay
// distinct across kinds.
type (
	PatientID                     string
	ConsentID                     string
	EpisodeID                     string
	DiagnosisID                   string
	FamilyMemberDiagnosisID       string
	PreviousGuidelineTherapyID    string
	LastGuidelineTherapyID        string
	ECOGStatusID                  string
	SpecimenID                    string
	TumorCellContentID            string
	TumorMorphologyID             string
	HistologyReportID             string
	MolecularPathologyFindingID   string
	SomaticNGSReportID            string
	VariantID                     string
	CarePlanID                    string
	TherapyRecommendationID       string
	GeneticCounsellingRequestID   string
	RebiopsyRequestID             string
	HistologyReevaluationRequestID string
	StudyInclusionRequestID       string
	ClaimID                       string
	ClaimResponseID               string
	MolecularTherapyID            string
	ResponseID                    string
)
