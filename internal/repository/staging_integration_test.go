package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
	"github.com/dnpm-intake/mtbvalidate/internal/validator"
)

// TestPostgresStagingStore_SaveBothAndDelete exercises the real save/save/
// delete lifecycle against a disposable Postgres container; skipped in
// short test runs.
func TestPostgresStagingStore_SaveBothAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers-backed integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("mtbvalidate"),
		postgres.WithUsername("mtbvalidate"),
		postgres.WithPassword("mtbvalidate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("reading connection string: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	runner, err := NewMigrationRunner(connStr, "migrations", logger)
	if err != nil {
		t.Fatalf("creating migration runner: %v", err)
	}
	if err := runner.Up(); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("connecting pool: %v", err)
	}
	defer pool.Close()

	store := NewPostgresStagingStore(pool, logger)

	bd := domain.NewYearMonth(1970, time.January)
	file := domain.MTBFile{Patient: domain.Patient{ID: "P1", Gender: domain.GenderMale, BirthDate: &bd}}
	report := validator.DataQualityReport{
		Patient: "P1",
		Issues: []validation.Issue{
			validation.NewIssue(validation.Warning, validation.Location{EntityKind: "MTBFile", EntityID: "P1", Attribute: "diagnoses"}, "diagnoses is empty"),
		},
	}

	if err := store.SaveBoth(ctx, file, report); err != nil {
		t.Fatalf("SaveBoth: %v", err)
	}

	got, err := store.MTBFile(ctx, "P1")
	if err != nil {
		t.Fatalf("MTBFile: %v", err)
	}
	if got.Patient.ID != "P1" {
		t.Fatalf("expected patient P1, got %v", got.Patient.ID)
	}

	gotReport, err := store.DataQCReportOf(ctx, "P1")
	if err != nil {
		t.Fatalf("DataQCReportOf: %v", err)
	}
	if len(gotReport.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(gotReport.Issues))
	}

	if err := store.DeleteAll(ctx, "P1"); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if _, err := store.MTBFile(ctx, "P1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// DeleteAll must be idempotent.
	if err := store.DeleteAll(ctx, "P1"); err != nil {
		t.Fatalf("DeleteAll (second call): %v", err)
	}
}
