package infra_postgres_session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/humanbelnik/kinomatch/core/internal/model"
	usecase_session "github.com/humanbelnik/kinomatch/core/internal/usecase/session"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

const selectSession = `
	SELECT
		s.id, s.name, s.hash_token, s.creator_id, s.seed, s.start_date,
		s.max_age, s.max_duration, s.min_year, s.max_year, s.include_watched,
		s.min_rating, s.min_votes,
		s.end_max_minutes, s.end_max_votes, s.end_max_matches,
		s.sort_by, s.sort_order, s.discover_total, s.vote_average, s.vote_count,
		s.region, s.language,
		COALESCE(array_agg(ps.provider) FILTER (WHERE ps.provider IS NOT NULL), '{}') AS providers
	FROM voting_session s
	LEFT JOIN provider_selection ps ON ps.session_id = s.id
`

// Create inserts the session row plus its provider and genre selections in
// one transaction and returns the generated id.
func (d *Driver) Create(ctx context.Context, session *model.VotingSession) (int64, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	dto := FromDomain(session)

	insertSession := `
		INSERT INTO voting_session (
			name, hash_token, creator_id, seed, start_date,
			max_age, max_duration, min_year, max_year, include_watched,
			min_rating, min_votes,
			end_max_minutes, end_max_votes, end_max_matches,
			sort_by, sort_order, discover_total, vote_average, vote_count,
			region, language
		) VALUES (
			:name, :hash_token, :creator_id, :seed, :start_date,
			:max_age, :max_duration, :min_year, :max_year, :include_watched,
			:min_rating, :min_votes,
			:end_max_minutes, :end_max_votes, :end_max_matches,
			:sort_by, :sort_order, :discover_total, :vote_average, :vote_count,
			:region, :language
		) RETURNING id
	`

	rows, err := tx.NamedQuery(insertSession, dto)
	if err != nil {
		return 0, err
	}
	var sessionID int64
	if rows.Next() {
		if err := rows.Scan(&sessionID); err != nil {
			_ = rows.Close()
			return 0, err
		}
	}
	if err := rows.Close(); err != nil {
		return 0, err
	}

	insertProvider := `INSERT INTO provider_selection (session_id, provider) VALUES ($1, $2)`
	for _, provider := range session.Providers {
		if _, err := tx.ExecContext(ctx, insertProvider, sessionID, string(provider)); err != nil {
			return 0, err
		}
	}

	insertGenre := `INSERT INTO genre_selection (session_id, genre_id, vote) VALUES ($1, $2, $3)`
	for _, genreID := range session.Genres.Must {
		if _, err := tx.ExecContext(ctx, insertGenre, sessionID, genreID, 1); err != nil {
			return 0, err
		}
	}
	for _, genreID := range session.Genres.Excluded {
		if _, err := tx.ExecContext(ctx, insertGenre, sessionID, genreID, -1); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return sessionID, nil
}

func (d *Driver) ByID(ctx context.Context, sessionID int64) (*model.VotingSession, error) {
	var dto SessionDB

	query := selectSession + ` WHERE s.id = $1 GROUP BY s.id`

	err := d.db.GetContext(ctx, &dto, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase_session.ErrResourceNotFound
		}
		return nil, err
	}

	session := dto.ToDomain()
	if err := d.loadGenreSelection(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (d *Driver) List(ctx context.Context) ([]*model.VotingSession, error) {
	var dtos []SessionDB

	query := selectSession + ` GROUP BY s.id ORDER BY s.start_date DESC`

	if err := d.db.SelectContext(ctx, &dtos, query); err != nil {
		return nil, err
	}

	sessions := make([]*model.VotingSession, 0, len(dtos))
	for i := range dtos {
		session := dtos[i].ToDomain()
		if err := d.loadGenreSelection(ctx, session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Delete removes the session; entries, votes and selections cascade.
func (d *Driver) Delete(ctx context.Context, sessionID int64) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM voting_session WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return usecase_session.ErrResourceNotFound
	}
	return nil
}

func (d *Driver) loadGenreSelection(ctx context.Context, session *model.VotingSession) error {
	var rows []struct {
		GenreID int64 `db:"genre_id"`
		Vote    int   `db:"vote"`
	}

	query := `SELECT genre_id, vote FROM genre_selection WHERE session_id = $1`

	if err := d.db.SelectContext(ctx, &rows, query, session.ID); err != nil {
		return err
	}

	for _, row := range rows {
		if row.Vote > 0 {
			session.Genres.Must = append(session.Genres.Must, row.GenreID)
		} else {
			session.Genres.Excluded = append(session.Genres.Excluded, row.GenreID)
		}
	}
	return nil
}
