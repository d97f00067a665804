package feedback

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/symptom-checker-server/internal/database"
	"github.com/symptom-checker-server/internal/domain"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// ExportVersion is written into every export.
const ExportVersion = "1.0"

// maxExportLimit is the maximum number of entries to export at once.
const maxExportLimit = 1000000

// Open builds the store selected by cfg. Driver "none" returns a nil store
// and no error.
func Open(ctx context.Context, cfg domain.FeedbackConfig, logger *logrus.Logger) (Store, error) {
	switch cfg.Driver {
	case DriverNone:
		logger.Info("Feedback store disabled")
		return nil, nil
	case "", DriverSQLite:
		store, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.WithField("path", cfg.SQLitePath).Info("Using SQLite feedback store")
		return store, nil
	case DriverPostgres:
		conn, err := database.NewConnection(ctx, cfg.DatabaseURL, database.DefaultPoolConfig(), logger)
		if err != nil {
			return nil, err
		}
		if cfg.RunMigrations {
			if err := Migrate(conn.SQL, logger); err != nil {
				conn.Close()
				return nil, err
			}
		}
		store := NewPostgresStore(conn.SQL)
		store.closeFn = func() error {
			conn.Close()
			return nil
		}
		logger.Info("Using PostgreSQL feedback store")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown feedback driver %q", cfg.Driver)
	}
}

// Migrate applies the PostgreSQL feedback schema.
func Migrate(db *sql.DB, logger *logrus.Logger) error {
	runner, err := database.NewMigrationRunner(db, logger)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.Up()
}

type lister interface {
	List(ctx context.Context, limit, offset int) ([]*Feedback, error)
}

func exportJSON(ctx context.Context, s lister, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}
	if all == nil {
		all = []*Feedback{}
	}

	export := &FeedbackExport{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Count:      len(all),
		Feedback:   all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func importJSON(ctx context.Context, s Store, reader io.Reader) (imported int, skipped int, err error) {
	var export FeedbackExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, fb := range export.Feedback {
		if fb == nil || fb.Validate() != nil {
			skipped++
			continue
		}

		_, err := s.Get(ctx, fb.AnalysisID)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}

		fb.ID = 0
		if err := s.Save(ctx, fb); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}

// finishStats turns per-condition sums into rates.
func finishStats(total, agreed, ratingSum int64, byCondition []*ConditionStats, agreedBy, ratingBy []int64) *Stats {
	stats := &Stats{Total: total, ByCondition: byCondition}
	if total > 0 {
		stats.AgreementRate = float64(agreed) / float64(total)
		stats.AverageRating = float64(ratingSum) / float64(total)
	}
	for i, c := range byCondition {
		if c.Count > 0 {
			c.AgreementRate = float64(agreedBy[i]) / float64(c.Count)
			c.AverageRating = float64(ratingBy[i]) / float64(c.Count)
		}
	}
	if stats.ByCondition == nil {
		stats.ByCondition = []*ConditionStats{}
	}
	return stats
}

// statsQuery is portable between SQLite and PostgreSQL.
const statsQuery = `
	SELECT suggested_condition,
		COUNT(*),
		SUM(CASE WHEN user_agreed THEN 1 ELSE 0 END),
		SUM(rating)
	FROM feedback
	GROUP BY suggested_condition
	ORDER BY COUNT(*) DESC, suggested_condition ASC
`

func queryStats(ctx context.Context, db *sql.DB) (*Stats, error) {
	rows, err := db.QueryContext(ctx, statsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var (
		total, agreed, ratingSum int64
		byCondition              []*ConditionStats
		agreedBy, ratingBy       []int64
	)
	for rows.Next() {
		var (
			c           ConditionStats
			cAgreed, cR int64
		)
		if err := rows.Scan(&c.Condition, &c.Count, &cAgreed, &cR); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		total += c.Count
		agreed += cAgreed
		ratingSum += cR
		byCondition = append(byCondition, &c)
		agreedBy = append(agreedBy, cAgreed)
		ratingBy = append(ratingBy, cR)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return finishStats(total, agreed, ratingSum, byCondition, agreedBy, ratingBy), nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `id, analysis_id, suggested_condition, suggested_confidence,
	confirmed_condition, rating, user_agreed, notes, created_at, updated_at`

func scanFeedback(s scanner) (*Feedback, error) {
	fb := &Feedback{}
	err := s.Scan(
		&fb.ID, &fb.AnalysisID, &fb.SuggestedCondition, &fb.SuggestedConfidence,
		&fb.ConfirmedCondition, &fb.Rating, &fb.UserAgreed, &fb.Notes,
		&fb.CreatedAt, &fb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

func scanAll(rows *sql.Rows) ([]*Feedback, error) {
	defer rows.Close()
	var result []*Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}
