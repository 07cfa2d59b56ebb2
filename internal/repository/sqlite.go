package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
	"github.com/dnpm-intake/mtbvalidate/internal/validator"
)

// SQLiteStagingStore is a single-file StagingStore for single-site/
// lite deployments that don't run a standalone Postgres instance, mirroring
// the same schema as PostgresStagingStore.
type SQLiteStagingStore struct {
	db *sql.DB
}

// NewSQLiteStagingStore opens (creating if needed) a SQLite database at
// dbPath and ensures its schema exists.
func NewSQLiteStagingStore(dbPath string) (*SQLiteStagingStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("repository: create staging directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("repository: open sqlite staging store: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: set WAL mode: %w", err)
	}
	if err := createSQLiteSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStagingStore{db: db}, nil
}

// NewSQLiteStagingStoreWithDB wraps an already-open *sql.DB, skipping
// schema creation. Exercised by tests against a sqlmock-backed database/sql
// driver where a real schema cannot exist.
func NewSQLiteStagingStoreWithDB(db *sql.DB) *SQLiteStagingStore {
	return &SQLiteStagingStore{db: db}
}

func createSQLiteSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS staged_mtb_files (
			patient_id TEXT PRIMARY KEY,
			payload    TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS staged_quality_reports (
			patient_id TEXT PRIMARY KEY,
			issues     TEXT NOT NULL
		);`)
	if err != nil {
		return fmt.Errorf("repository: create sqlite schema: %w", err)
	}
	return nil
}

func (s *SQLiteStagingStore) SaveFile(ctx context.Context, file domain.MTBFile) error {
	payload, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("repository: marshal mtb file: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO staged_mtb_files (patient_id, payload) VALUES (?, ?)
		ON CONFLICT(patient_id) DO UPDATE SET payload = excluded.payload`,
		string(file.Patient.ID), string(payload))
	if err != nil {
		return fmt.Errorf("repository: save mtb file: %w", err)
	}
	return nil
}

func (s *SQLiteStagingStore) SaveReport(ctx context.Context, report validator.DataQualityReport) error {
	payload, err := json.Marshal(report.Issues)
	if err != nil {
		return fmt.Errorf("repository: marshal data quality report: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO staged_quality_reports (patient_id, issues) VALUES (?, ?)
		ON CONFLICT(patient_id) DO UPDATE SET issues = excluded.issues`,
		string(report.Patient), string(payload))
	if err != nil {
		return fmt.Errorf("repository: save data quality report: %w", err)
	}
	return nil
}

// SaveBoth persists file and report together inside one transaction,
// mirroring PostgresStagingStore's atomicity guarantee.
func (s *SQLiteStagingStore) SaveBoth(ctx context.Context, file domain.MTBFile, report validator.DataQualityReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin transaction: %w", err)
	}
	defer tx.Rollback()

	filePayload, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("repository: marshal mtb file: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO staged_mtb_files (patient_id, payload) VALUES (?, ?)
		ON CONFLICT(patient_id) DO UPDATE SET payload = excluded.payload`,
		string(file.Patient.ID), string(filePayload)); err != nil {
		return fmt.Errorf("repository: save mtb file: %w", err)
	}

	reportPayload, err := json.Marshal(report.Issues)
	if err != nil {
		return fmt.Errorf("repository: marshal data quality report: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO staged_quality_reports (patient_id, issues) VALUES (?, ?)
		ON CONFLICT(patient_id) DO UPDATE SET issues = excluded.issues`,
		string(report.Patient), string(reportPayload)); err != nil {
		return fmt.Errorf("repository: save data quality report: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStagingStore) DeleteAll(ctx context.Context, patient domain.PatientID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM staged_mtb_files WHERE patient_id = ?`, string(patient)); err != nil {
		return fmt.Errorf("repository: delete mtb file: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM staged_quality_reports WHERE patient_id = ?`, string(patient)); err != nil {
		return fmt.Errorf("repository: delete data quality report: %w", err)
	}
	return nil
}

func (s *SQLiteStagingStore) MTBFile(ctx context.Context, patient domain.PatientID) (domain.MTBFile, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM staged_mtb_files WHERE patient_id = ?`, string(patient)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MTBFile{}, ErrNotFound
	}
	if err != nil {
		return domain.MTBFile{}, fmt.Errorf("repository: load mtb file: %w", err)
	}
	var file domain.MTBFile
	if err := json.Unmarshal([]byte(payload), &file); err != nil {
		return domain.MTBFile{}, fmt.Errorf("repository: decode mtb file: %w", err)
	}
	return file, nil
}

func (s *SQLiteStagingStore) DataQCReportOf(ctx context.Context, patient domain.PatientID) (validator.DataQualityReport, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT issues FROM staged_quality_reports WHERE patient_id = ?`, string(patient)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return validator.DataQualityReport{}, ErrNotFound
	}
	if err != nil {
		return validator.DataQualityReport{}, fmt.Errorf("repository: load data quality report: %w", err)
	}
	var issues []validation.Issue
	if err := json.Unmarshal([]byte(payload), &issues); err != nil {
		return validator.DataQualityReport{}, fmt.Errorf("repository: decode data quality report: %w", err)
	}
	return validator.DataQualityReport{Patient: patient, Issues: issues}, nil
}

func (s *SQLiteStagingStore) MTBFiles(ctx context.Context) ([]domain.MTBFile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM staged_mtb_files ORDER BY patient_id`)
	if err != nil {
		return nil, fmt.Errorf("repository: list mtb files: %w", err)
	}
	defer rows.Close()

	var files []domain.MTBFile
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("repository: scan mtb file: %w", err)
		}
		var file domain.MTBFile
		if err := json.Unmarshal([]byte(payload), &file); err != nil {
			return nil, fmt.Errorf("repository: decode mtb file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (s *SQLiteStagingStore) Close() error {
	return s.db.Close()
}
