package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/analysis"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/report"
)

// Repository implements report.Store on sqlite
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

var _ report.Store = (*Repository)(nil)

// SaveReport stores r, replacing any earlier report for the same cycle
func (r *Repository) SaveReport(ctx context.Context, rep report.CycleReport) error {
	row, err := NewReportRow(rep)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmts, err := r.statements("delete_report_by_cycle", "insert_report", "insert_theme_score")
	if err != nil {
		return err
	}

	if _, err := tx.StmtContext(ctx, stmts[0]).ExecContext(ctx, row.CycleID); err != nil {
		return fmt.Errorf("failed to replace report: %w", err)
	}

	_, err = tx.StmtContext(ctx, stmts[1]).ExecContext(ctx,
		row.ID, row.CycleID, row.EngagementIndex, row.Trend, row.ParticipationRate,
		row.ParticipationAtRisk, row.RiskScore, row.NLPSource, row.Payload, row.GeneratedAt, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	insertTheme := tx.StmtContext(ctx, stmts[2])
	for themeID, score := range rep.ThemeScores {
		if _, err := insertTheme.ExecContext(ctx, row.ID, themeID, score); err != nil {
			return fmt.Errorf("failed to insert theme score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}

// GetReport loads the report for cycleID or returns report.ErrNotFound
func (r *Repository) GetReport(ctx context.Context, cycleID string) (report.CycleReport, error) {
	stmt, err := r.db.GetPreparedStatement("get_report_by_cycle")
	if err != nil {
		return report.CycleReport{}, err
	}

	var payload string
	err = stmt.QueryRowContext(ctx, cycleID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return report.CycleReport{}, report.ErrNotFound
	}
	if err != nil {
		return report.CycleReport{}, fmt.Errorf("failed to query report: %w", err)
	}

	return decodeReport(payload)
}

// ListReports returns report summaries newest first; limit <= 0 returns all
func (r *Repository) ListReports(ctx context.Context, limit int) ([]report.Summary, error) {
	stmt, err := r.db.GetPreparedStatement("list_reports")
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	summaries := make([]report.Summary, 0)
	for rows.Next() {
		var s report.Summary
		if err := rows.Scan(&s.ReportID, &s.CycleID, &s.EngagementIndex, &s.RiskScore, &s.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ThemeSeries pairs each theme's stored scores with the engagement index of the
// same reports, oldest first, ready for driver analysis
func (r *Repository) ThemeSeries(ctx context.Context) ([]analysis.ThemeSeries, error) {
	stmt, err := r.db.GetPreparedStatement("theme_history")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query theme history: %w", err)
	}
	defer rows.Close()

	series := make([]analysis.ThemeSeries, 0)
	for rows.Next() {
		var themeID string
		var score, engagement float64
		if err := rows.Scan(&themeID, &score, &engagement); err != nil {
			return nil, fmt.Errorf("failed to scan theme history: %w", err)
		}

		if n := len(series); n == 0 || series[n-1].ThemeID != themeID {
			series = append(series, analysis.ThemeSeries{ThemeID: themeID, ThemeName: themeID})
		}
		last := &series[len(series)-1]
		last.ThemeScores = append(last.ThemeScores, score)
		last.EngagementScores = append(last.EngagementScores, engagement)
	}
	return series, rows.Err()
}

func (r *Repository) statements(names ...string) ([]*sql.Stmt, error) {
	stmts := make([]*sql.Stmt, len(names))
	for i, name := range names {
		stmt, err := r.db.GetPreparedStatement(name)
		if err != nil {
			return nil, err
		}
		stmts[i] = stmt
	}
	return stmts, nil
}
