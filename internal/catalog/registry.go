// Package catalog implements the Catalog Registry (C2): a read-only,
// process-lifetime view over the external code systems an MTB file is
// validated against — ICD-10-GM, ICD-O-3 topography/morphology, ATC
// medications and HGNC gene symbols.
//
// Loading is an embedded-snapshot strategy; a production deployment could
// swap it for a file- or network-backed loader without the validator
// package noticing, since every consumer only sees the Registry interface.
package catalog

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

//go:embed data/*.csv
var snapshots embed.FS

// Registry is the read-only view every entity validator resolves catalog
// membership against. Lookups are total (never error, never block) and
// pure — construction is where loading failures surface.
type Registry interface {
	ICD10Versions() map[string]struct{}
	ICD10Codes(version string) map[string]struct{}
	ICDO3TopographyCodes(version string) map[string]struct{}
	ICDO3MorphologyCodes(version string) map[string]struct{}
	ATCCodes() map[string]struct{}
	HGNCHasSymbol(symbol string) bool
}

// StaticRegistry is a Registry backed by snapshot files loaded once at
// construction and never mutated again, matching the "effectively
// immutable after construction" requirement.
type StaticRegistry struct {
	icd10      map[string]map[string]struct{}
	icdO3Topo  map[string]map[string]struct{}
	icdO3Morph map[string]map[string]struct{}
	atc        map[string]struct{}
	hgnc       map[string]struct{}
}

// icd10Versions maps the version label embedded in a catalog file name
// (ICD-10-GM and ICD-O-3 catalogs are versioned by year) to the file that
// backs it. Adding a new annual release is a matter of adding a CSV here.
var icd10Versions = map[string]string{
	"2023": "data/icd10gm_2023.csv",
	"2024": "data/icd10gm_2024.csv",
}

var icdO3TopographyVersions = map[string]string{
	"2019": "data/icdo3_topography_2019.csv",
}

var icdO3MorphologyVersions = map[string]string{
	"2019": "data/icdo3_morphology_2019.csv",
}

// NewStaticRegistry loads every embedded snapshot and returns a ready
// Registry. Any malformed snapshot is a construction-time error; the
// registry must be present before the validator is built, so callers are
// expected to treat a non-nil error as fatal at process start.
func NewStaticRegistry() (*StaticRegistry, error) {
	r := &StaticRegistry{
		icd10:      make(map[string]map[string]struct{}, len(icd10Versions)),
		icdO3Topo:  make(map[string]map[string]struct{}, len(icdO3TopographyVersions)),
		icdO3Morph: make(map[string]map[string]struct{}, len(icdO3MorphologyVersions)),
	}

	for version, path := range icd10Versions {
		codes, err := loadCodeColumn(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: loading ICD-10-GM %s: %w", version, err)
		}
		r.icd10[version] = codes
	}
	for version, path := range icdO3TopographyVersions {
		codes, err := loadCodeColumn(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: loading ICD-O-3 topography %s: %w", version, err)
		}
		r.icdO3Topo[version] = codes
	}
	for version, path := range icdO3MorphologyVersions {
		codes, err := loadCodeColumn(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: loading ICD-O-3 morphology %s: %w", version, err)
		}
		r.icdO3Morph[version] = codes
	}

	atc, err := loadCodeColumn("data/atc.csv")
	if err != nil {
		return nil, fmt.Errorf("catalog: loading ATC: %w", err)
	}
	r.atc = atc

	hgnc, err := loadSingleColumn("data/hgnc_symbols.csv", "symbol")
	if err != nil {
		return nil, fmt.Errorf("catalog: loading HGNC symbols: %w", err)
	}
	r.hgnc = hgnc

	return r, nil
}

func loadCodeColumn(path string) (map[string]struct{}, error) {
	return loadSingleColumn(path, "code")
}

func loadSingleColumn(path, column string) (map[string]struct{}, error) {
	f, err := snapshots.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	colIdx := -1
	for i, h := range header {
		if strings.TrimSpace(h) == column {
			colIdx = i
			break
		}
	}
	if colIdx == -1 {
		return nil, fmt.Errorf("%s: missing %q column", path, column)
	}

	codes := make(map[string]struct{})
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if colIdx >= len(record) {
			return nil, fmt.Errorf("%s: row %v missing column %q", path, record, column)
		}
		code := strings.TrimSpace(record[colIdx])
		if code == "" {
			return nil, fmt.Errorf("%s: empty %q value", path, column)
		}
		codes[code] = struct{}{}
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("%s: no rows loaded", path)
	}
	return codes, nil
}

func (r *StaticRegistry) ICD10Versions() map[string]struct{} {
	out := make(map[string]struct{}, len(r.icd10))
	for v := range r.icd10 {
		out[v] = struct{}{}
	}
	return out
}

func (r *StaticRegistry) ICD10Codes(version string) map[string]struct{} {
	return r.icd10[version]
}

func (r *StaticRegistry) ICDO3TopographyCodes(version string) map[string]struct{} {
	return r.icdO3Topo[version]
}

func (r *StaticRegistry) ICDO3MorphologyCodes(version string) map[string]struct{} {
	return r.icdO3Morph[version]
}

func (r *StaticRegistry) ATCCodes() map[string]struct{} {
	return r.atc
}

func (r *StaticRegistry) HGNCHasSymbol(symbol string) bool {
	_, ok := r.hgnc[symbol]
	return ok
}
