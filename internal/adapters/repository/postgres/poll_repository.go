package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const pollColumns = `p.id, p.title, p.description, p.created_at, p.expires_at, p.is_public, p.created_by_id, u.username`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, title, description, created_at, expires_at, is_public, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.Title, poll.Description, poll.CreatedAt, poll.ExpiresAt, poll.IsPublic, poll.CreatedByID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	if err := insertOptions(ctx, tx, poll.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		UPDATE polls
		SET title = $2, description = $3, expires_at = $4, is_public = $5
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, queryPoll, poll.ID, poll.Title, poll.Description, poll.ExpiresAt, poll.IsPublic)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	} else if n == 0 {
		return domain.ErrPollNotFound
	}

	// votes on the old options go with them
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = $1`, poll.ID); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}

	if err := insertOptions(ctx, tx, poll.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if n == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return getPoll(ctx, r.db, id)
}

func (r *pollRepository) GetAggregate(ctx context.Context, id uuid.UUID) (*domain.PollAggregate, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poll, err := getPoll(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	queryVotes := `
		SELECT id, poll_id, option_id, user_id, ip_address, created_at
		FROM votes
		WHERE poll_id = $1
	`
	rows, err := tx.QueryContext(ctx, queryVotes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, *vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &domain.PollAggregate{Poll: *poll, Votes: votes}, nil
}

func (r *pollRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM polls ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list poll ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating poll ids: %w", err)
	}
	return ids, nil
}

func (r *pollRepository) List(ctx context.Context, filter ports.ListPollsFilter) ([]*domain.Poll, int, error) {
	where := `
		WHERE (p.is_public OR p.expires_at IS NULL OR p.expires_at > $1)
		AND ($2 = '' OR p.title ILIKE '%' || $2 || '%' ESCAPE '\')
	`
	args := []any{filter.Now, escapeLike(filter.Query)}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM polls p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count polls: %w", err)
	}

	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		JOIN users u ON u.id = p.created_by_id
	` + where + `
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4
	`
	polls, err := r.queryPolls(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list polls: %w", err)
	}
	return polls, total, nil
}

func (r *pollRepository) ListVotedBy(ctx context.Context, voter domain.VoterKey, limit, offset int) ([]*domain.Poll, int, error) {
	column, value, ok := voterFilter(voter)
	if !ok {
		return nil, 0, nil
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM votes v WHERE v.` + column + ` = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, value).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count voted polls: %w", err)
	}

	query := `
		SELECT ` + pollColumns + `
		FROM votes v
		JOIN polls p ON p.id = v.poll_id
		JOIN users u ON u.id = p.created_by_id
		WHERE v.` + column + ` = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	polls, err := r.queryPolls(ctx, query, value, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list voted polls: %w", err)
	}
	return polls, total, nil
}

func (r *pollRepository) CountByCreator(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM polls WHERE created_by_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count polls: %w", err)
	}
	return count, nil
}

func (r *pollRepository) queryPolls(ctx context.Context, query string, args ...any) ([]*domain.Poll, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var polls []*domain.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	rows.Close()

	if err := attachOptions(ctx, r.db, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

func getPoll(ctx context.Context, q queryer, id uuid.UUID) (*domain.Poll, error) {
	queryPoll := `
		SELECT ` + pollColumns + `
		FROM polls p
		JOIN users u ON u.id = p.created_by_id
		WHERE p.id = $1
	`
	poll, err := scanPoll(q.QueryRowContext(ctx, queryPoll, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := attachOptions(ctx, q, []*domain.Poll{poll}); err != nil {
		return nil, err
	}
	return poll, nil
}

func scanPoll(row rowScanner) (*domain.Poll, error) {
	var poll domain.Poll
	err := row.Scan(
		&poll.ID, &poll.Title, &poll.Description, &poll.CreatedAt, &poll.ExpiresAt,
		&poll.IsPublic, &poll.CreatedByID, &poll.CreatedByUsername,
	)
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

// attachOptions loads the options of all polls in one query, keeping their stored order.
func attachOptions(ctx context.Context, q queryer, polls []*domain.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Poll, len(polls))
	ids := make([]string, 0, len(polls))
	for _, p := range polls {
		p.Options = []domain.PollOption{}
		byID[p.ID] = p
		ids = append(ids, p.ID.String())
	}

	queryOptions := `
		SELECT id, poll_id, text
		FROM poll_options
		WHERE poll_id = ANY($1::uuid[])
		ORDER BY poll_id, position
	`
	rows, err := q.QueryContext(ctx, queryOptions, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		if p, ok := byID[opt.PollID]; ok {
			p.Options = append(p.Options, opt)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating options: %w", err)
	}
	return nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, options []domain.PollOption) error {
	queryOption := `
		INSERT INTO poll_options (id, poll_id, text, position)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for i, opt := range options {
		if _, err := stmt.ExecContext(ctx, opt.ID, opt.PollID, opt.Text, i); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
