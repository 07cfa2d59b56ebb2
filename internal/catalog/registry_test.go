package catalog

import "testing"

func mustLoadRegistry(t *testing.T) *StaticRegistry {
	t.Helper()
	r, err := NewStaticRegistry()
	if err != nil {
		t.Fatalf("NewStaticRegistry() error = %v", err)
	}
	return r
}

func TestICD10CodesByVersion(t *testing.T) {
	r := mustLoadRegistry(t)

	tests := []struct {
		version string
		code    string
		want    bool
	}{
		{"2023", "C34.9", true},
		{"2023", "C50.9", true},
		{"2023", "C91.0", false},
		{"2024", "C91.0", true},
		{"9999", "C34.9", false},
	}
	for _, tt := range tests {
		codes := r.ICD10Codes(tt.version)
		_, ok := codes[tt.code]
		if ok != tt.want {
			t.Errorf("ICD10Codes(%q)[%q] = %v, want %v", tt.version, tt.code, ok, tt.want)
		}
	}
}

func TestICD10Versions(t *testing.T) {
	r := mustLoadRegistry(t)
	versions := r.ICD10Versions()
	for _, v := range []string{"2023", "2024"} {
		if _, ok := versions[v]; !ok {
			t.Errorf("expected version %q present", v)
		}
	}
}

func TestICDO3TopographyAndMorphology(t *testing.T) {
	r := mustLoadRegistry(t)
	if _, ok := r.ICDO3TopographyCodes("2019")["C34.9"]; !ok {
		t.Error("expected C34.9 in ICD-O-3 topography 2019")
	}
	if _, ok := r.ICDO3MorphologyCodes("2019")["8140/3"]; !ok {
		t.Error("expected 8140/3 in ICD-O-3 morphology 2019")
	}
	if _, ok := r.ICDO3MorphologyCodes("2019")["0000/9"]; ok {
		t.Error("did not expect nonsense morphology code to be present")
	}
}

func TestATCCodes(t *testing.T) {
	r := mustLoadRegistry(t)
	if _, ok := r.ATCCodes()["L01XE01"]; !ok {
		t.Error("expected L01XE01 in ATC catalog")
	}
	if _, ok := r.ATCCodes()["Z99ZZ99"]; ok {
		t.Error("did not expect fabricated ATC code to be present")
	}
}

func TestHGNCHasSymbol(t *testing.T) {
	r := mustLoadRegistry(t)
	if !r.HGNCHasSymbol("BRAF") {
		t.Error("expected BRAF to be a known HGNC symbol")
	}
	if r.HGNCHasSymbol("NOTAGENE") {
		t.Error("did not expect NOTAGENE to be a known HGNC symbol")
	}
}
