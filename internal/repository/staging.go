// Package repository implements the staging store: the external
// collaborator above that persists an MTB file together with its
// DataQualityReport when intake finds Error/Warning issues but no Fatal
// ones, so the file can be corrected and re-submitted without the
// submitter resending the whole payload.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
	"github.com/dnpm-intake/mtbvalidate/internal/validation"
	"github.com/dnpm-intake/mtbvalidate/internal/validator"
)

// ErrNotFound is returned by MTBFile/DataQCReportOf when the patient
// has no staged record.
var ErrNotFound = errors.New("repository: no staged record for patient")

// StagingStore is the persistence boundary for staged case data: save(file),
// save(report), deleteAll(patient), mtbfile(id), dataQcReportOf(id),
// mtbfiles() (an iterator here expressed as a slice, since the staging
// table is expected to stay small relative to a single process's
// lifetime).
type StagingStore interface {
	SaveFile(ctx context.Context, file domain.MTBFile) error
	SaveReport(ctx context.Context, report validator.DataQualityReport) error
	SaveBoth(ctx context.Context, file domain.MTBFile, report validator.DataQualityReport) error
	DeleteAll(ctx context.Context, patient domain.PatientID) error
	MTBFile(ctx context.Context, patient domain.PatientID) (domain.MTBFile, error)
	DataQCReportOf(ctx context.Context, patient domain.PatientID) (validator.DataQualityReport, error)
	MTBFiles(ctx context.Context) ([]domain.MTBFile, error)
}

// PostgresStagingStore is the production StagingStore, backed by a
// pgxpool.Pool. SaveFile and SaveReport are issued together by the intake
// pipeline; SaveBoth wraps that pair in a single transaction so the store
// never leaves a file staged without its report, or the other way round.
type PostgresStagingStore struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPostgresStagingStore builds a PostgresStagingStore over an already
// connected pool.
func NewPostgresStagingStore(db *pgxpool.Pool, logger *logrus.Logger) *PostgresStagingStore {
	return &PostgresStagingStore{db: db, log: logger}
}

// SaveBoth persists file and report together inside one transaction
// instead of relying on two independent saves that could leave one
// written and the other lost on a crash in between.
func (s *PostgresStagingStore) SaveBoth(ctx context.Context, file domain.MTBFile, report validator.DataQualityReport) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("staging: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.saveFileTx(ctx, tx, file); err != nil {
		return err
	}
	if err := s.saveReportTx(ctx, tx, report); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("staging: commit transaction: %w", err)
	}

	s.log.WithFields(logrus.Fields{"patient": file.Patient.ID}).Info("staged mtb file and quality report")
	return nil
}

func (s *PostgresStagingStore) SaveFile(ctx context.Context, file domain.MTBFile) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("staging: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)
	if err := s.saveFileTx(ctx, tx, file); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStagingStore) SaveReport(ctx context.Context, report validator.DataQualityReport) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("staging: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)
	if err := s.saveReportTx(ctx, tx, report); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStagingStore) saveFileTx(ctx context.Context, tx pgx.Tx, file domain.MTBFile) error {
	payload, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("staging: marshal mtb file: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO staged_mtb_files (patient_id, payload)
		VALUES ($1, $2)
		ON CONFLICT (patient_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		string(file.Patient.ID), payload,
	)
	if err != nil {
		return fmt.Errorf("staging: save mtb file: %w", err)
	}
	return nil
}

func (s *PostgresStagingStore) saveReportTx(ctx context.Context, tx pgx.Tx, report validator.DataQualityReport) error {
	payload, err := json.Marshal(report.Issues)
	if err != nil {
		return fmt.Errorf("staging: marshal data quality report: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO staged_quality_reports (patient_id, issues)
		VALUES ($1, $2)
		ON CONFLICT (patient_id) DO UPDATE SET issues = EXCLUDED.issues, updated_at = now()`,
		string(report.Patient), payload,
	)
	if err != nil {
		return fmt.Errorf("staging: save data quality report: %w", err)
	}
	return nil
}

// DeleteAll purges both tables for a patient; idempotent by construction
// since DELETE on a missing row is a no-op.
func (s *PostgresStagingStore) DeleteAll(ctx context.Context, patient domain.PatientID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("staging: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM staged_mtb_files WHERE patient_id = $1`, string(patient)); err != nil {
		return fmt.Errorf("staging: delete mtb file: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM staged_quality_reports WHERE patient_id = $1`, string(patient)); err != nil {
		return fmt.Errorf("staging: delete data quality report: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("staging: commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStagingStore) MTBFile(ctx context.Context, patient domain.PatientID) (domain.MTBFile, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT payload FROM staged_mtb_files WHERE patient_id = $1`, string(patient)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MTBFile{}, ErrNotFound
	}
	if err != nil {
		return domain.MTBFile{}, fmt.Errorf("staging: load mtb file: %w", err)
	}
	var file domain.MTBFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return domain.MTBFile{}, fmt.Errorf("staging: decode mtb file: %w", err)
	}
	return file, nil
}

func (s *PostgresStagingStore) DataQCReportOf(ctx context.Context, patient domain.PatientID) (validator.DataQualityReport, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT issues FROM staged_quality_reports WHERE patient_id = $1`, string(patient)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return validator.DataQualityReport{}, ErrNotFound
	}
	if err != nil {
		return validator.DataQualityReport{}, fmt.Errorf("staging: load data quality report: %w", err)
	}
	var issues []validation.Issue
	if err := json.Unmarshal(payload, &issues); err != nil {
		return validator.DataQualityReport{}, fmt.Errorf("staging: decode data quality report: %w", err)
	}
	return validator.DataQualityReport{Patient: patient, Issues: issues}, nil
}

func (s *PostgresStagingStore) MTBFiles(ctx context.Context) ([]domain.MTBFile, error) {
	rows, err := s.db.Query(ctx, `SELECT payload FROM staged_mtb_files ORDER BY patient_id`)
	if err != nil {
		return nil, fmt.Errorf("staging: list mtb files: %w", err)
	}
	defer rows.Close()

	var files []domain.MTBFile
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("staging: scan mtb file: %w", err)
		}
		var file domain.MTBFile
		if err := json.Unmarshal(payload, &file); err != nil {
			return nil, fmt.Errorf("staging: decode mtb file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}
