package infra_postgres_entry

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type entryDB struct {
	Source   string `db:"source"`
	NativeID string `db:"native_id"`
}

// ListBySession returns the persisted candidate list in insertion order.
// Once written the order is final; every reader sees the same permutation.
func (d *Driver) ListBySession(ctx context.Context, sessionID int64) ([]model.MovieEntry, error) {
	var rows []entryDB

	query := `
		SELECT source, native_id
		FROM movie_entry
		WHERE session_id = $1
		ORDER BY ord ASC
	`

	if err := d.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, err
	}

	entries := make([]model.MovieEntry, 0, len(rows))
	for _, row := range rows {
		source, err := model.ParseSource(row.Source)
		if err != nil {
			continue
		}
		entries = append(entries, model.MovieEntry{
			SessionID: sessionID,
			Source:    source,
			NativeID:  row.NativeID,
		})
	}
	return entries, nil
}

// InsertAll persists the shuffled candidate list in one transaction, ord
// following slice order.
func (d *Driver) InsertAll(ctx context.Context, sessionID int64, ids []model.MovieId) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO movie_entry (session_id, source, native_id, ord) VALUES ($1, $2, $3, $4)`

	for ord, id := range ids {
		if _, err := tx.ExecContext(ctx, query, sessionID, string(id.Source), id.NativeID, ord); err != nil {
			return err
		}
	}
	return tx.Commit()
}
