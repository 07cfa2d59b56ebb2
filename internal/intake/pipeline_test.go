package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dnpm-intake/mtbvalidate/internal/catalog"
	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/repository"
	"github.com/dnpm-intake/mtbvalidate/internal/validator"
)

type fakeStaging struct {
	files    map[domain.PatientID]domain.MTBFile
	reports  map[domain.PatientID]validator.DataQualityReport
	saveErr  error
	deleteErr error
}

func newFakeStaging() *fakeStaging {
	return &fakeStaging{
		files:   make(map[domain.PatientID]domain.MTBFile),
		reports: make(map[domain.PatientID]validator.DataQualityReport),
	}
}

func (f *fakeStaging) SaveFile(ctx context.Context, file domain.MTBFile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.files[file.Patient.ID] = file
	return nil
}

func (f *fakeStaging) SaveReport(ctx context.Context, report validator.DataQualityReport) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.reports[report.Patient] = report
	return nil
}

func (f *fakeStaging) SaveBoth(ctx context.Context, file domain.MTBFile, report validator.DataQualityReport) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.files[file.Patient.ID] = file
	f.reports[report.Patient] = report
	return nil
}

func (f *fakeStaging) DeleteAll(ctx context.Context, patient domain.PatientID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.files, patient)
	delete(f.reports, patient)
	return nil
}

func (f *fakeStaging) MTBFile(ctx context.Context, patient domain.PatientID) (domain.MTBFile, error) {
	file, ok := f.files[patient]
	if !ok {
		return domain.MTBFile{}, repository.ErrNotFound
	}
	return file, nil
}

func (f *fakeStaging) DataQCReportOf(ctx context.Context, patient domain.PatientID) (validator.DataQualityReport, error) {
	report, ok := f.reports[patient]
	if !ok {
		return validator.DataQualityReport{}, repository.ErrNotFound
	}
	return report, nil
}

func (f *fakeStaging) MTBFiles(ctx context.Context) ([]domain.MTBFile, error) {
	files := make([]domain.MTBFile, 0, len(f.files))
	for _, file := range f.files {
		files = append(files, file)
	}
	return files, nil
}

type fakeQueryService struct {
	uploaded  []domain.MTBFile
	deleted   []domain.PatientID
	uploadErr error
	deleteErr error
}

func (q *fakeQueryService) Upload(ctx context.Context, file domain.MTBFile) error {
	if q.uploadErr != nil {
		return q.uploadErr
	}
	q.uploaded = append(q.uploaded, file)
	return nil
}

func (q *fakeQueryService) Delete(ctx context.Context, patient domain.PatientID) error {
	if q.deleteErr != nil {
		return q.deleteErr
	}
	q.deleted = append(q.deleted, patient)
	return nil
}

func testPipeline(t *testing.T, staging *fakeStaging, query *fakeQueryService) *Pipeline {
	t.Helper()
	reg, err := catalog.NewStaticRegistry()
	if err != nil {
		t.Fatalf("NewStaticRegistry() error = %v", err)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return &Pipeline{
		Registry: reg,
		Clock:    validator.SystemClock{},
		Staging:  staging,
		Query:    query,
		Log:      logger,
		SiteID:   "ZPM-TEST",
	}
}

func basePatient() domain.Patient {
	bd := domain.NewYearMonth(1970, time.January)
	return domain.Patient{ID: "P1", Gender: domain.GenderMale, BirthDate: &bd}
}

// S1: minimal valid file under rejected consent is imported and forwarded.
func TestPipeline_S1_MinimalValidRejectedConsentIsImported(t *testing.T) {
	staging := newFakeStaging()
	query := &fakeQueryService{}
	p := testPipeline(t, staging, query)

	file := domain.MTBFile{
		Patient: basePatient(),
		Consent: domain.Consent{ID: "C1", Patient: "P1", Status: domain.ConsentRejected},
		Episode: domain.MTBEpisode{ID: "E1", Patient: "P1"},
	}

	outcome := p.Upload(context.Background(), file)
	if outcome.Kind != Imported {
		t.Fatalf("expected Imported, got %v (err %v)", outcome.Kind, outcome.Err)
	}
	if len(query.uploaded) != 1 {
		t.Fatalf("expected file to be forwarded to query service, got %d uploads", len(query.uploaded))
	}
}

// S2: missing diagnoses is an Error (no Fatal) -> IssuesDetected, staged.
func TestPipeline_S2_MissingDiagnosesIsStaged(t *testing.T) {
	staging := newFakeStaging()
	query := &fakeQueryService{}
	p := testPipeline(t, staging, query)

	file := domain.MTBFile{
		Patient:   basePatient(),
		Consent:   domain.Consent{ID: "C1", Patient: "P1", Status: domain.ConsentActive},
		Episode:   domain.MTBEpisode{ID: "E1", Patient: "P1"},
		Responses: []domain.Response{},
	}

	outcome := p.Upload(context.Background(), file)
	if outcome.Kind != IssuesDetected {
		t.Fatalf("expected IssuesDetected, got %v (err %v)", outcome.Kind, outcome.Err)
	}
	if len(query.uploaded) != 0 {
		t.Fatal("file with issues must not be forwarded")
	}
	if _, ok := staging.files["P1"]; !ok {
		t.Fatal("expected file to be staged")
	}
	if _, ok := staging.reports["P1"]; !ok {
		t.Fatal("expected report to be staged")
	}
}

// S3: dangling specimen/diagnosis reference is Fatal -> InvalidData, never staged or forwarded.
func TestPipeline_S3_DanglingReferenceIsInvalid(t *testing.T) {
	staging := newFakeStaging()
	query := &fakeQueryService{}
	p := testPipeline(t, staging, query)

	recordedOn := domain.NewDate(2023, time.March, 1)
	diagICD10 := domain.Coding[domain.ICD10GMCode]{Code: "C34.9", Version: "2023"}
	specICD10 := domain.Coding[domain.ICD10GMCode]{Code: "C50.9", Version: "2023"}

	file := domain.MTBFile{
		Patient: basePatient(),
		Consent: domain.Consent{ID: "C1", Patient: "P1", Status: domain.ConsentActive},
		Episode: domain.MTBEpisode{ID: "E1", Patient: "P1"},
		Diagnoses: []domain.Diagnosis{
			{ID: "D1", Patient: "P1", RecordedOn: &recordedOn, ICD10: &diagICD10},
		},
		Specimens: []domain.Specimen{
			{ID: "S1", Patient: "P1", ICD10: specICD10},
		},
	}

	outcome := p.Upload(context.Background(), file)
	if outcome.Kind != InvalidData {
		t.Fatalf("expected InvalidData, got %v", outcome.Kind)
	}
	if len(query.uploaded) != 0 {
		t.Fatal("invalid file must not be forwarded")
	}
	if len(staging.files) != 0 || len(staging.reports) != 0 {
		t.Fatal("invalid file must not be staged")
	}
}

// A previously staged file that's resubmitted and now clean gets forwarded
// and its staged copy removed.
func TestPipeline_CorrectedResubmissionClearsStagedCopy(t *testing.T) {
	staging := newFakeStaging()
	query := &fakeQueryService{}
	p := testPipeline(t, staging, query)

	recordedOn := domain.NewDate(2023, time.March, 1)
	diagICD10 := domain.Coding[domain.ICD10GMCode]{Code: "C34.9", Version: "2023"}

	bad := domain.MTBFile{
		Patient:   basePatient(),
		Consent:   domain.Consent{ID: "C1", Patient: "P1", Status: domain.ConsentActive},
		Episode:   domain.MTBEpisode{ID: "E1", Patient: "P1"},
		Responses: []domain.Response{},
	}
	outcome := p.Upload(context.Background(), bad)
	if outcome.Kind != IssuesDetected {
		t.Fatalf("expected IssuesDetected on first submission, got %v", outcome.Kind)
	}

	fixed := domain.MTBFile{
		Patient: basePatient(),
		Consent: domain.Consent{ID: "C1", Patient: "P1", Status: domain.ConsentActive},
		Episode: domain.MTBEpisode{ID: "E1", Patient: "P1"},
		Diagnoses: []domain.Diagnosis{
			{ID: "D1", Patient: "P1", RecordedOn: &recordedOn, ICD10: &diagICD10},
		},
		PreviousGuidelineTherapies: []domain.PreviousGuidelineTherapy{
			{ID: "PT1", Patient: "P1", Diagnosis: "D1"},
		},
		Responses: []domain.Response{
			{ID: "RS1", Patient: "P1", Therapy: "PT1", Value: domain.RECISTStableDisease},
		},
	}
	outcome = p.Upload(context.Background(), fixed)
	if outcome.Kind != Imported {
		t.Fatalf("expected Imported on corrected resubmission, got %v (err %v)", outcome.Kind, outcome.Err)
	}
	if _, ok := staging.files["P1"]; ok {
		t.Fatal("expected staged copy to be cleared after successful import")
	}
}

// Upload always stamps the configured site identifier onto the patient,
// overwriting whatever the submitter sent, regardless of classification.
func TestPipeline_UploadStampsConfiguredSiteIdentifier(t *testing.T) {
	staging := newFakeStaging()
	query := &fakeQueryService{}
	p := testPipeline(t, staging, query)

	patient := basePatient()
	patient.ManagingZPM = "SOME-OTHER-SITE"
	file := domain.MTBFile{
		Patient: patient,
		Consent: domain.Consent{ID: "C1", Patient: "P1", Status: domain.ConsentRejected},
		Episode: domain.MTBEpisode{ID: "E1", Patient: "P1"},
	}

	outcome := p.Upload(context.Background(), file)
	if outcome.Kind != Imported {
		t.Fatalf("expected Imported, got %v (err %v)", outcome.Kind, outcome.Err)
	}
	if len(query.uploaded) != 1 {
		t.Fatalf("expected file to be forwarded, got %d uploads", len(query.uploaded))
	}
	if got := query.uploaded[0].Patient.ManagingZPM; got != "ZPM-TEST" {
		t.Fatalf("expected forwarded file's managingZPM to be stamped to %q, got %q", "ZPM-TEST", got)
	}
}

// The stamp also applies to a file that carries no managingZPM at all, and
// persists through staging for a file with non-fatal issues.
func TestPipeline_UploadStampsSiteIdentifierEvenWhenStaged(t *testing.T) {
	staging := newFakeStaging()
	query := &fakeQueryService{}
	p := testPipeline(t, staging, query)

	file := domain.MTBFile{
		Patient:   basePatient(),
		Consent:   domain.Consent{ID: "C1", Patient: "P1", Status: domain.ConsentActive},
		Episode:   domain.MTBEpisode{ID: "E1", Patient: "P1"},
		Responses: []domain.Response{},
	}

	outcome := p.Upload(context.Background(), file)
	if outcome.Kind != IssuesDetected {
		t.Fatalf("expected IssuesDetected, got %v (err %v)", outcome.Kind, outcome.Err)
	}
	staged, ok := staging.files["P1"]
	if !ok {
		t.Fatal("expected file to be staged")
	}
	if staged.Patient.ManagingZPM != "ZPM-TEST" {
		t.Fatalf("expected staged file's managingZPM to be stamped to %q, got %q", "ZPM-TEST", staged.Patient.ManagingZPM)
	}
}

func TestPipeline_UploadForwardFailureIsUnspecificError(t *testing.T) {
	staging := newFakeStaging()
	query := &fakeQueryService{uploadErr: errors.New("connection refused")}
	p := testPipeline(t, staging, query)

	file := domain.MTBFile{
		Patient: basePatient(),
		Consent: domain.Consent{ID: "C1", Patient: "P1", Status: domain.ConsentRejected},
		Episode: domain.MTBEpisode{ID: "E1", Patient: "P1"},
	}

	outcome := p.Upload(context.Background(), file)
	if outcome.Kind != UnspecificError {
		t.Fatalf("expected UnspecificError, got %v", outcome.Kind)
	}
	if outcome.Err == nil {
		t.Fatal("expected a non-nil error")
	}
}

func TestPipeline_DeleteRequiresBothSidesToSucceed(t *testing.T) {
	staging := newFakeStaging()
	query := &fakeQueryService{}
	p := testPipeline(t, staging, query)
	staging.files["P1"] = domain.MTBFile{Patient: basePatient()}

	outcome := p.Delete(context.Background(), "P1")
	if outcome.Kind != Deleted {
		t.Fatalf("expected Deleted, got %v (err %v)", outcome.Kind, outcome.Err)
	}
	if len(query.deleted) != 1 || query.deleted[0] != "P1" {
		t.Fatalf("expected query service delete to be invoked for P1, got %v", query.deleted)
	}
	if _, ok := staging.files["P1"]; ok {
		t.Fatal("expected staged file to be removed")
	}
}

func TestPipeline_DeletePropagatesQueryServiceFailure(t *testing.T) {
	staging := newFakeStaging()
	query := &fakeQueryService{deleteErr: errors.New("downstream unavailable")}
	p := testPipeline(t, staging, query)

	outcome := p.Delete(context.Background(), "P1")
	if outcome.Kind != UnspecificError {
		t.Fatalf("expected UnspecificError, got %v", outcome.Kind)
	}
}
