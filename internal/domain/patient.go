package domain

// Patient is the root identity entity every other entity in an MTB file
// ultimately references.
type Patient struct {
	ID             PatientID  `json:"id" validate:"required"`
	Gender         Gender     `json:"gender" validate:"required"`
	BirthDate      *YearMonth `json:"birthDate,omitempty"`
	ManagingZPM    string     `json:"managingZPM,omitempty"`
	Insurance      string     `json:"insurance,omitempty"`
	DateOfDeath    *YearMonth `json:"dateOfDeath,omitempty"`
}

// Consent gates whether medical data may be present in the file at all.
type Consent struct {
	ID      ConsentID     `json:"id" validate:"required"`
	Patient PatientID     `json:"patient" validate:"required"`
	Status  ConsentStatus `json:"status" validate:"required"`
}

// MTBEpisode is the tumor-board episode a patient's case belongs to.
type MTBEpisode struct {
	ID      EpisodeID `json:"id" validate:"required"`
	Patient PatientID `json:"patient" validate:"required"`
	Period  Period    `json:"period"`
}
