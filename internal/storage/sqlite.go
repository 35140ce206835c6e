package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"normsim/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteRecorder struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteRecorder(path string) *SQLiteRecorder {
	return &SQLiteRecorder{path: path}
}

func (r *SQLiteRecorder) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.path == "" {
		return errors.New("sqlite path is required")
	}
	if r.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", r.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	r.db = db
	return nil
}

func (r *SQLiteRecorder) Append(ctx context.Context, result model.RunResult) error {
	db, err := r.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO run_results (
			weight, prop_playing_a1, seed, rounds, revisions,
			share_a1, share_a2, share_b1, share_b2,
			pay_a1, pay_a2, pay_b1, pay_b2
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.Weight, result.PropPlayingA1, result.Seed, result.Rounds, result.Revisions,
		result.FinalShares.A1, result.FinalShares.A2, result.FinalShares.B1, result.FinalShares.B2,
		result.MeanPayoffs.A1, result.MeanPayoffs.A2, result.MeanPayoffs.B1, result.MeanPayoffs.B2,
	)
	if err != nil {
		return err
	}
	resultID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, round := range result.RoundHistory {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO round_stats (
				result_id, round, a_pairings, b_pairings,
				prop_playing_a1, prop_playing_b1, mean_payoff
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`, resultID, round.Round, round.APairings, round.BPairings,
			round.PropPlayingA1, round.PropPlayingB1, round.MeanPayoff)
		if err != nil {
			return fmt.Errorf("append round %d: %w", round.Round, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) List(ctx context.Context) ([]model.RunResult, error) {
	db, err := r.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, weight, prop_playing_a1, seed, rounds, revisions,
			share_a1, share_a2, share_b1, share_b2,
			pay_a1, pay_a2, pay_b1, pay_b2
		FROM run_results ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.RunResult
	var ids []int64
	for rows.Next() {
		var id int64
		var result model.RunResult
		err := rows.Scan(&id, &result.Weight, &result.PropPlayingA1, &result.Seed,
			&result.Rounds, &result.Revisions,
			&result.FinalShares.A1, &result.FinalShares.A2, &result.FinalShares.B1, &result.FinalShares.B2,
			&result.MeanPayoffs.A1, &result.MeanPayoffs.A2, &result.MeanPayoffs.B1, &result.MeanPayoffs.B2)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		history, err := r.loadRounds(ctx, db, id)
		if err != nil {
			return nil, fmt.Errorf("load round stats for result %d: %w", id, err)
		}
		results[i].RoundHistory = history
	}
	return results, nil
}

func (r *SQLiteRecorder) loadRounds(ctx context.Context, db *sql.DB, resultID int64) ([]model.RoundStats, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT round, a_pairings, b_pairings, prop_playing_a1, prop_playing_b1, mean_payoff
		FROM round_stats WHERE result_id = ? ORDER BY round
	`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.RoundStats
	for rows.Next() {
		var round model.RoundStats
		err := rows.Scan(&round.Round, &round.APairings, &round.BPairings,
			&round.PropPlayingA1, &round.PropPlayingB1, &round.MeanPayoff)
		if err != nil {
			return nil, err
		}
		history = append(history, round)
	}
	return history, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *SQLiteRecorder) getDB() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.db == nil {
		return nil, errors.New("recorder is not initialized")
	}
	return r.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS run_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			weight REAL NOT NULL,
			prop_playing_a1 REAL NOT NULL,
			seed INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			revisions INTEGER NOT NULL,
			share_a1 REAL NOT NULL,
			share_a2 REAL NOT NULL,
			share_b1 REAL NOT NULL,
			share_b2 REAL NOT NULL,
			pay_a1 REAL NOT NULL,
			pay_a2 REAL NOT NULL,
			pay_b1 REAL NOT NULL,
			pay_b2 REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS round_stats (
			result_id INTEGER NOT NULL REFERENCES run_results(id),
			round INTEGER NOT NULL,
			a_pairings INTEGER NOT NULL,
			b_pairings INTEGER NOT NULL,
			prop_playing_a1 REAL NOT NULL,
			prop_playing_b1 REAL NOT NULL,
			mean_payoff REAL NOT NULL,
			PRIMARY KEY (result_id, round)
		);
	`)
	return err
}
