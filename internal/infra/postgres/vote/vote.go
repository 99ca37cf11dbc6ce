package infra_postgres_vote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type voteDB struct {
	UserID      int64     `db:"user_id"`
	MovieSource string    `db:"movie_source"`
	MovieID     string    `db:"movie_id"`
	SessionID   int64     `db:"session_id"`
	Vote        string    `db:"vote"`
	VoteDate    time.Time `db:"vote_date"`
}

func (v *voteDB) toDomain() (model.MovieVote, error) {
	source, err := model.ParseSource(v.MovieSource)
	if err != nil {
		return model.MovieVote{}, err
	}
	vote, err := model.ParseVote(v.Vote)
	if err != nil {
		return model.MovieVote{}, err
	}
	return model.MovieVote{
		UserID:    v.UserID,
		Source:    source,
		NativeID:  v.MovieID,
		SessionID: v.SessionID,
		Vote:      vote,
		VoteDate:  v.VoteDate,
	}, nil
}

// Swap replaces the user's vote on a movie. Delete and insert run in one
// transaction so no reader ever observes zero or two votes for the key.
func (d *Driver) Swap(ctx context.Context, vote model.MovieVote) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery := `
		DELETE FROM movie_vote
		WHERE user_id = $1 AND movie_source = $2 AND movie_id = $3 AND session_id = $4
	`

	if _, err := tx.ExecContext(ctx, deleteQuery,
		vote.UserID, string(vote.Source), vote.NativeID, vote.SessionID); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO movie_vote (id, user_id, movie_source, movie_id, session_id, vote, vote_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := tx.ExecContext(ctx, insertQuery,
		uuid.New(), vote.UserID, string(vote.Source), vote.NativeID, vote.SessionID,
		string(vote.Vote), vote.VoteDate); err != nil {
		return err
	}
	return tx.Commit()
}

// UserVotes returns the user's votes in the session ordered by vote time,
// oldest first.
func (d *Driver) UserVotes(ctx context.Context, sessionID int64, userID int64) ([]model.MovieVote, error) {
	var rows []voteDB

	query := `
		SELECT user_id, movie_source, movie_id, session_id, vote, vote_date
		FROM movie_vote
		WHERE session_id = $1 AND user_id = $2
		ORDER BY vote_date ASC
	`

	if err := d.db.SelectContext(ctx, &rows, query, sessionID, userID); err != nil {
		return nil, err
	}

	votes := make([]model.MovieVote, 0, len(rows))
	for i := range rows {
		vote, err := rows[i].toDomain()
		if err != nil {
			continue
		}
		votes = append(votes, vote)
	}
	return votes, nil
}

func (d *Driver) CountForUser(ctx context.Context, sessionID int64, userID int64) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM movie_vote WHERE session_id = $1 AND user_id = $2`

	if err := d.db.GetContext(ctx, &count, query, sessionID, userID); err != nil {
		return 0, err
	}
	return count, nil
}

func (d *Driver) DistinctVoters(ctx context.Context, sessionID int64) (int, error) {
	var count int

	query := `SELECT COUNT(DISTINCT user_id) FROM movie_vote WHERE session_id = $1`

	if err := d.db.GetContext(ctx, &count, query, sessionID); err != nil {
		return 0, err
	}
	return count, nil
}

// MatchCount counts movies whose distinct PRO voters equal the session's
// distinct voter count, i.e. unanimously approved so far.
func (d *Driver) MatchCount(ctx context.Context, sessionID int64) (int, error) {
	var count int

	query := `
		SELECT COUNT(*) FROM (
			SELECT movie_source, movie_id
			FROM movie_vote
			WHERE session_id = $1 AND vote = 'PRO'
			GROUP BY movie_source, movie_id
			HAVING COUNT(DISTINCT user_id) = (
				SELECT COUNT(DISTINCT user_id) FROM movie_vote WHERE session_id = $1
			)
		) AS matches
	`

	if err := d.db.GetContext(ctx, &count, query, sessionID); err != nil {
		return 0, err
	}
	return count, nil
}

type tallyDB struct {
	MovieSource  string        `db:"movie_source"`
	MovieID      string        `db:"movie_id"`
	ProVoters    pq.Int64Array `db:"pro_voters"`
	ContraVoters pq.Int64Array `db:"contra_voters"`
	LastVote     time.Time     `db:"last_vote"`
}

// Tallies aggregates per-movie pro/contra voter lists for the session,
// most recently voted movie first.
func (d *Driver) Tallies(ctx context.Context, sessionID int64) ([]model.MovieVoteTally, error) {
	var rows []tallyDB

	query := `
		SELECT
			movie_source,
			movie_id,
			COALESCE(array_agg(user_id) FILTER (WHERE vote = 'PRO'), '{}') AS pro_voters,
			COALESCE(array_agg(user_id) FILTER (WHERE vote = 'CONTRA'), '{}') AS contra_voters,
			MAX(vote_date) AS last_vote
		FROM movie_vote
		WHERE session_id = $1
		GROUP BY movie_source, movie_id
		ORDER BY last_vote DESC
	`

	if err := d.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, err
	}

	tallies := make([]model.MovieVoteTally, 0, len(rows))
	for _, row := range rows {
		source, err := model.ParseSource(row.MovieSource)
		if err != nil {
			continue
		}
		tallies = append(tallies, model.MovieVoteTally{
			Source:       source,
			NativeID:     row.MovieID,
			ProVoters:    []int64(row.ProVoters),
			ContraVoters: []int64(row.ContraVoters),
			LastVote:     row.LastVote,
		})
	}
	return tallies, nil
}
