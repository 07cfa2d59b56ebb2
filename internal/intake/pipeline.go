// Package intake implements the Intake Pipeline (C6): the orchestrator
// that takes a Command (Upload or Delete), runs it through the File
// Validator and the staging store, forwards valid data to the downstream
// QueryService, and classifies the result.
package intake

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dnpm-intake/mtbvalidate/internal/catalog"
	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/repository"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
	"github.com/dnpm-intake/mtbvalidate/internal/validator"
)

// QueryService is the subset of queryservice.QueryService the pipeline
// depends on, kept local so this package doesn't import an HTTP client
// it only needs as an interface.
type QueryService interface {
	Upload(ctx context.Context, file domain.MTBFile) error
	Delete(ctx context.Context, patient domain.PatientID) error
}

// Outcome is the result of processing a Command, per the classification
// table below.
type Outcome struct {
	Kind    OutcomeKind
	File    domain.MTBFile
	Report  *validator.DataQualityReport
	Patient domain.PatientID
	Err     error
}

// OutcomeKind names which branch of the table produced an Outcome.
type OutcomeKind int

const (
	Imported OutcomeKind = iota
	IssuesDetected
	Deleted
	InvalidData
	UnspecificError
)

func (k OutcomeKind) String() string {
	switch k {
	case Imported:
		return "Imported"
	case IssuesDetected:
		return "IssuesDetected"
	case Deleted:
		return "Deleted"
	case InvalidData:
		return "InvalidData"
	case UnspecificError:
		return "UnspecificError"
	default:
		return "Unknown"
	}
}

// Pipeline wires the file validator, the staging store, and the query
// service together into the two commands: upload and delete.
type Pipeline struct {
	Registry catalog.Registry
	Clock    validator.Clock
	Staging  repository.StagingStore
	Query    QueryService
	Log      *logrus.Logger

	// SiteID is the managing ZPM identifier this intake instance stamps
	// onto every uploaded patient before validation, overwriting whatever
	// the submitter sent.
	SiteID string

	// Idempotency is optional; a nil cache disables the retry
	// short-circuit entirely and every upload is processed in full.
	Idempotency *IdempotencyCache
}

// Upload stamps the incoming file with this site's identifier, then runs
// it through validation and classifies the result:
//   - no report (the validator raised no Error or Fatal issue), or a
//     report whose issues are all Info: forward to the query service and,
//     on success, remove any previously staged copy. Yields Imported.
//   - any Fatal issue: never forwarded, never persisted. Yields
//     InvalidData.
//   - otherwise (Error present, no Fatal): staged for later correction
//     together with the report's Warning and Info issues. Yields
//     IssuesDetected.
func (p *Pipeline) Upload(ctx context.Context, file domain.MTBFile) Outcome {
	file.Patient.ManagingZPM = p.SiteID

	payload, _ := json.Marshal(file)
	if kind, ok := p.Idempotency.Lookup(ctx, file.Patient.ID, payload); ok && kind == Imported {
		p.Log.WithFields(logrus.Fields{"patient": file.Patient.ID}).Info("replaying cached outcome for duplicate upload")
		return Outcome{Kind: Imported, Patient: file.Patient.ID}
	}

	validated, report := validator.Validate(p.Registry, p.Clock, file)

	if report == nil || !hasAtLeast(report.Issues, validation.Warning) {
		return p.forward(ctx, validated, report)
	}

	if hasAtLeast(report.Issues, validation.Fatal) {
		p.Log.WithFields(logrus.Fields{"patient": validated.Patient.ID}).Warn("rejecting mtb file with fatal data quality issues")
		return Outcome{Kind: InvalidData, File: validated, Report: report, Patient: validated.Patient.ID}
	}

	if err := p.Staging.SaveBoth(ctx, validated, *report); err != nil {
		p.Log.WithFields(logrus.Fields{"patient": validated.Patient.ID, "error": err}).Error("staging mtb file with data quality issues failed")
		return Outcome{Kind: UnspecificError, Patient: validated.Patient.ID, Err: err}
	}
	return Outcome{Kind: IssuesDetected, File: validated, Report: report, Patient: validated.Patient.ID}
}

// forward sends a valid (or info-only) file to the query service and, on
// success, removes any staged copy left over from an earlier submission
// that had since been corrected.
func (p *Pipeline) forward(ctx context.Context, file domain.MTBFile, report *validator.DataQualityReport) Outcome {
	if err := p.Query.Upload(ctx, file); err != nil {
		p.Log.WithFields(logrus.Fields{"patient": file.Patient.ID, "error": err}).Error("forwarding mtb file to query service failed")
		return Outcome{Kind: UnspecificError, Patient: file.Patient.ID, Err: err}
	}
	if err := p.Staging.DeleteAll(ctx, file.Patient.ID); err != nil {
		p.Log.WithFields(logrus.Fields{"patient": file.Patient.ID, "error": err}).Error("clearing staged copy after import failed")
		return Outcome{Kind: UnspecificError, Patient: file.Patient.ID, Err: err}
	}
	if payload, err := json.Marshal(file); err == nil {
		p.Idempotency.Remember(ctx, file.Patient.ID, payload, Imported)
	}
	return Outcome{Kind: Imported, File: file, Report: report, Patient: file.Patient.ID}
}

// Delete purges a patient's staged record and instructs the query service
// to delete its own copy, concurrently. Both must succeed for the overall
// command to succeed.
func (p *Pipeline) Delete(ctx context.Context, patient domain.PatientID) Outcome {
	var wg sync.WaitGroup
	var stagingErr, queryErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		stagingErr = p.Staging.DeleteAll(ctx, patient)
	}()
	go func() {
		defer wg.Done()
		queryErr = p.Query.Delete(ctx, patient)
	}()
	wg.Wait()

	if stagingErr != nil {
		p.Log.WithFields(logrus.Fields{"patient": patient, "error": stagingErr}).Error("deleting staged record failed")
		return Outcome{Kind: UnspecificError, Patient: patient, Err: stagingErr}
	}
	if queryErr != nil {
		p.Log.WithFields(logrus.Fields{"patient": patient, "error": queryErr}).Error("instructing query service delete failed")
		return Outcome{Kind: UnspecificError, Patient: patient, Err: queryErr}
	}
	return Outcome{Kind: Deleted, Patient: patient}
}

func hasAtLeast(issues []validation.Issue, sev validation.Severity) bool {
	for _, issue := range issues {
		if issue.Severity >= sev {
			return true
		}
	}
	return false
}
