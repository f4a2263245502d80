package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/induction/internal/canon"
	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/fleet"
)

// Decision is the outcome of the confirmation step.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ParseDecision returns the Decision named by s.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionApproved, DecisionRejected:
		return Decision(s), nil
	}
	return "", fmt.Errorf("unknown decision %q (want approved or rejected)", s)
}

// ErrPlanNotFound is returned by GetPlan for an unknown plan ID.
var ErrPlanNotFound = errors.New("plan not found")

// PlanRecord is one ledger entry.
type PlanRecord struct {
	// Seq is assigned by the ledger on insert.
	Seq int64 `json:"seq"`

	ID       string   `json:"id"`
	Decision Decision `json:"decision"`
	Actor    string   `json:"actor"`
	Notes    string   `json:"notes,omitempty"`

	// FleetDigest identifies the fleet the plan was ranked from.
	FleetDigest string `json:"fleet_digest"`

	// PlanDigest is computed from Entries by RecordPlan.
	PlanDigest string `json:"plan_digest"`

	DecidedAt time.Time          `json:"decided_at"`
	Entries   []engine.PlanEntry `json:"entries"`
}

// RecordPlan appends rec to the ledger. Recording an ID that already exists
// is silently ignored. A zero DecidedAt is stamped with the store clock.
func (s *Store) RecordPlan(ctx context.Context, rec PlanRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("record plan: empty id")
	}
	if _, err := ParseDecision(string(rec.Decision)); err != nil {
		return fmt.Errorf("record plan: %w", err)
	}
	if rec.DecidedAt.IsZero() {
		rec.DecidedAt = s.now()
	}

	digest, err := PlanDigest(rec.Entries)
	if err != nil {
		return fmt.Errorf("record plan: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record plan: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO plans
		(id, decision, actor, notes, fleet_digest, plan_digest, decided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		string(rec.Decision),
		rec.Actor,
		rec.Notes,
		rec.FleetDigest,
		digest,
		rec.DecidedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record plan: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record plan: %w", err)
	}
	if n == 0 {
		// Already recorded.
		return nil
	}

	for _, e := range rec.Entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO plan_entries
			(plan_id, rank, train_id, status, bay, score, eligible, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rec.ID,
			e.Rank,
			e.TrainID,
			string(e.Status),
			e.Bay,
			formatDecimal(e.Score),
			e.Eligible,
			formatDecimal(e.Confidence),
		)
		if err != nil {
			return fmt.Errorf("record plan entry %s: %w", e.TrainID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record plan: commit: %w", err)
	}
	return nil
}

// GetPlan returns the record with id, entries in rank order.
func (s *Store) GetPlan(ctx context.Context, id string) (PlanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, decision, actor, notes, fleet_digest, plan_digest, decided_at
		FROM plans
		WHERE id = ?
	`, id)

	rec, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PlanRecord{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	if err != nil {
		return PlanRecord{}, err
	}

	rec.Entries, err = s.readEntries(ctx, id)
	if err != nil {
		return PlanRecord{}, err
	}
	return rec, nil
}

// ListPlans returns up to limit records, newest first. Entries are not
// loaded; use GetPlan for the full record. limit <= 0 means no limit.
func (s *Store) ListPlans(ctx context.Context, limit int) ([]PlanRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, decision, actor, notes, fleet_digest, plan_digest, decided_at
		FROM plans
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var out []PlanRecord
	for rows.Next() {
		rec, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}

	// Return empty slice instead of nil
	if out == nil {
		out = []PlanRecord{}
	}
	return out, nil
}

// LastApproved returns the most recently approved plan, or ErrPlanNotFound.
func (s *Store) LastApproved(ctx context.Context) (PlanRecord, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM plans
		WHERE decision = ?
		ORDER BY seq DESC
		LIMIT 1
	`, string(DecisionApproved)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return PlanRecord{}, ErrPlanNotFound
	}
	if err != nil {
		return PlanRecord{}, fmt.Errorf("query last approved: %w", err)
	}
	return s.GetPlan(ctx, id)
}

func (s *Store) readEntries(ctx context.Context, planID string) ([]engine.PlanEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rank, train_id, status, bay, score, eligible, confidence
		FROM plan_entries
		WHERE plan_id = ?
		ORDER BY rank ASC
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("query plan entries: %w", err)
	}
	defer rows.Close()

	entries := []engine.PlanEntry{}
	for rows.Next() {
		var (
			e                 engine.PlanEntry
			status            string
			score, confidence string
		)
		if err := rows.Scan(&e.Rank, &e.TrainID, &status, &e.Bay, &score, &e.Eligible, &confidence); err != nil {
			return nil, fmt.Errorf("scan plan entry: %w", err)
		}
		e.Status = fleet.Status(status)
		if e.Score, err = strconv.ParseFloat(score, 64); err != nil {
			return nil, fmt.Errorf("parse score of %s: %w", e.TrainID, err)
		}
		if e.Confidence, err = strconv.ParseFloat(confidence, 64); err != nil {
			return nil, fmt.Errorf("parse confidence of %s: %w", e.TrainID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (PlanRecord, error) {
	var (
		rec       PlanRecord
		decision  string
		decidedAt string
	)
	err := row.Scan(&rec.Seq, &rec.ID, &decision, &rec.Actor, &rec.Notes, &rec.FleetDigest, &rec.PlanDigest, &decidedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PlanRecord{}, err
		}
		return PlanRecord{}, fmt.Errorf("scan plan: %w", err)
	}
	rec.Decision = Decision(decision)
	if rec.DecidedAt, err = time.Parse(time.RFC3339Nano, decidedAt); err != nil {
		return PlanRecord{}, fmt.Errorf("parse decided_at of %s: %w", rec.ID, err)
	}
	return rec, nil
}

// PlanDigest is the content hash of a plan's ranked entries. Breakdowns are
// excluded; they are recomputable from the fleet.
func PlanDigest(entries []engine.PlanEntry) (string, error) {
	list := make([]any, len(entries))
	for i, e := range entries {
		list[i] = map[string]any{
			"rank":       e.Rank,
			"train_id":   e.TrainID,
			"status":     string(e.Status),
			"bay":        e.Bay,
			"score":      formatDecimal(e.Score),
			"eligible":   e.Eligible,
			"confidence": formatDecimal(e.Confidence),
		}
	}
	return canon.Digest(canon.DomainPlan, map[string]any{"entries": list})
}

// formatDecimal renders floats as shortest round-trip decimals, so stored
// values compare exactly and never pass through float JSON.
func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
