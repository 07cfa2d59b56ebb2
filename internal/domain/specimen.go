package domain

// Specimen is a biological sample taken from the patient for a specific
// diagnosis, identified by an ICD-10-GM code that must match one of the
// file's diagnoses.
type Specimen struct {
	ID         SpecimenID           `json:"id" validate:"required"`
	Patient    PatientID            `json:"patient" validate:"required"`
	ICD10      Coding[ICD10GMCode]  `json:"icd10"`
	Type       string               `json:"type,omitempty"`
	Collection *Date                `json:"collection,omitempty"`
}

// TumorCellContent is a tumor-cell-fraction estimate, either from
// histology or from bioinformatic NGS analysis.
type TumorCellContent struct {
	ID       TumorCellContentID     `json:"id" validate:"required"`
	Specimen SpecimenID             `json:"specimen" validate:"required"`
	Method   TumorCellContentMethod `json:"method" validate:"required"`
	Value    float64                `json:"value" validate:"min=0,max=1"`
}

// TumorMorphology is the ICD-O-3 morphology coding for a specimen.
type TumorMorphology struct {
	ID       TumorMorphologyID   `json:"id" validate:"required"`
	Patient  PatientID           `json:"patient" validate:"required"`
	Specimen SpecimenID          `json:"specimen" validate:"required"`
	ICDO3M   Coding[ICDO3MCode]  `json:"icdO3M"`
	Notes    string              `json:"notes,omitempty"`
}

// HistologyReport is a histopathology report for a specimen; its
// TumorCellContent, if present, must have been estimated histologically.
type HistologyReport struct {
	ID               HistologyReportID  `json:"id" validate:"required"`
	Patient          PatientID          `json:"patient" validate:"required"`
	Specimen         SpecimenID         `json:"specimen" validate:"required"`
	IssuedOn         *Date              `json:"issuedOn,omitempty"`
	TumorMorphology  *TumorMorphologyID `json:"tumorMorphology,omitempty"`
	TumorCellContent *TumorCellContent  `json:"tumorCellContent,omitempty"`
}

// MolecularPathologyFinding is a molecular-pathology report for a specimen.
type MolecularPathologyFinding struct {
	ID       MolecularPathologyFindingID `json:"id" validate:"required"`
	Patient  PatientID                   `json:"patient" validate:"required"`
	Specimen SpecimenID                  `json:"specimen" validate:"required"`
	IssuedOn *Date                       `json:"issuedOn,omitempty"`
}

// SomaticNGSReport is a next-generation-sequencing report over a specimen;
// its TumorCellContent must have been estimated bioinformatically.
type SomaticNGSReport struct {
	ID               SomaticNGSReportID `json:"id" validate:"required"`
	Patient          PatientID          `json:"patient" validate:"required"`
	Specimen         SpecimenID         `json:"specimen" validate:"required"`
	IssuedOn         *Date              `json:"issuedOn,omitempty"`
	TumorCellContent TumorCellContent   `json:"tumorCellContent"`
	BRCAness         *float64           `json:"brcaness,omitempty"`
	MSI              *float64           `json:"msi,omitempty"`
	TMB              float64            `json:"tmb" validate:"min=0,max=1000000"`
	Variants         []Variant          `json:"variants,omitempty"`
}

// Variant is one NGS finding: a simple variant, CNV, fusion, or RNA-seq
// result. Kind discriminates which of the five shapes this is; Gene
// is only meaningful (and HGNC-checked) for simple variants.
type Variant struct {
	ID   VariantID            `json:"id" validate:"required"`
	Kind VariantKind          `json:"kind" validate:"required"`
	Gene *Coding[HGNCCode]    `json:"gene,omitempty"`
}
