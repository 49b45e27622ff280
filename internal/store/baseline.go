package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flowlens/flowlens/internal/ir"
)

// SaveBaseline inserts one baseline record. Seq is assigned by the store
// and ignored on input.
//
// Saves are idempotent per (doc_name, report_id): ON CONFLICT DO NOTHING
// makes re-saving an identical report for the same document key a no-op.
// The returned saved flag reports whether a row was actually inserted.
func (s *Store) SaveBaseline(ctx context.Context, rec ir.BaselineRecord) (saved bool, err error) {
	if rec.RunID == "" {
		return false, errors.New("save baseline: run ID is required")
	}
	if rec.DocName == "" {
		return false, errors.New("save baseline: document name is required")
	}
	if rec.ReportID == "" {
		return false, errors.New("save baseline: report ID is required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO baselines
		(run_id, doc_name, doc_fingerprint, report_id, report_version, engine_version, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_name, report_id) DO NOTHING
	`,
		rec.RunID,
		rec.DocName,
		rec.DocFingerprint,
		rec.ReportID,
		rec.ReportVersion,
		rec.EngineVersion,
		string(rec.ReportJSON),
	)
	if err != nil {
		return false, fmt.Errorf("save baseline: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save baseline: %w", err)
	}

	if affected > 0 {
		s.logger.Debug("baseline saved",
			"doc_name", rec.DocName, "report_id", rec.ReportID, "run_id", rec.RunID)
	}
	return affected > 0, nil
}

// LatestBaseline returns the most recent baseline for a document key, or
// nil when the document has no baseline yet.
func (s *Store) LatestBaseline(ctx context.Context, docName string) (*ir.BaselineRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, run_id, doc_name, doc_fingerprint, report_id, report_version, engine_version, report_json
		FROM baselines
		WHERE doc_name = ?
		ORDER BY seq DESC
		LIMIT 1
	`, docName)

	rec, err := scanBaseline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest baseline: %w", err)
	}
	return rec, nil
}

// ListBaselines returns all baselines for a document key in seq order,
// oldest first.
func (s *Store) ListBaselines(ctx context.Context, docName string) ([]ir.BaselineRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, run_id, doc_name, doc_fingerprint, report_id, report_version, engine_version, report_json
		FROM baselines
		WHERE doc_name = ?
		ORDER BY seq ASC
	`, docName)
	if err != nil {
		return nil, fmt.Errorf("list baselines: %w", err)
	}
	defer rows.Close()

	var records []ir.BaselineRecord
	for rows.Next() {
		rec, err := scanBaseline(rows)
		if err != nil {
			return nil, fmt.Errorf("list baselines: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list baselines: %w", err)
	}
	return records, nil
}

// DocumentNames returns the distinct document keys with at least one
// baseline, in name order.
func (s *Store) DocumentNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT doc_name FROM baselines ORDER BY doc_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("document names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("document names: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("document names: %w", err)
	}
	return names, nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanBaseline.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBaseline(row rowScanner) (*ir.BaselineRecord, error) {
	var rec ir.BaselineRecord
	var reportJSON string
	err := row.Scan(
		&rec.Seq,
		&rec.RunID,
		&rec.DocName,
		&rec.DocFingerprint,
		&rec.ReportID,
		&rec.ReportVersion,
		&rec.EngineVersion,
		&reportJSON,
	)
	if err != nil {
		return nil, err
	}
	rec.ReportJSON = []byte(reportJSON)
	return &rec, nil
}
