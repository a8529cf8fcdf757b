package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	userID, ip := voterColumns(vote.Voter)

	query := `
		INSERT INTO votes (id, poll_id, option_id, user_id, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.PollID, vote.OptionID, userID, ip, vote.CreatedAt)
	if err != nil {
		return mapVoteError(err, "failed to save vote")
	}
	return nil
}

func (r *voteRepository) UpdateOption(ctx context.Context, voteID, optionID uuid.UUID) error {
	query := `UPDATE votes SET option_id = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, voteID, optionID)
	if err != nil {
		return mapVoteError(err, "failed to update vote")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update vote: %w", err)
	}
	// the vote was cascaded away together with its option or poll
	if n == 0 {
		return domain.ErrInvalidOption
	}
	return nil
}

func (r *voteRepository) FindByVoter(ctx context.Context, pollID uuid.UUID, voter domain.VoterKey) (*domain.Vote, error) {
	column, value, ok := voterFilter(voter)
	if !ok {
		return nil, nil
	}

	query := `
		SELECT id, poll_id, option_id, user_id, ip_address, created_at
		FROM votes
		WHERE poll_id = $1 AND ` + column + ` = $2
	`
	vote, err := scanVote(r.db.QueryRowContext(ctx, query, pollID, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}
	return vote, nil
}

func mapVoteError(err error, msg string) error {
	if _, ok := asPQError(err, uniqueViolation); ok {
		return domain.ErrAlreadyVoted
	}
	if pqErr, ok := asPQError(err, foreignKeyViolation); ok {
		switch pqErr.Constraint {
		case constraintVotePoll:
			return domain.ErrPollNotFound
		case constraintVoteOptionPoll:
			return domain.ErrInvalidOption
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// voterColumns splits a voter key into the user_id and ip_address columns; exactly one is non-null.
func voterColumns(voter domain.VoterKey) (uuid.NullUUID, sql.NullString) {
	if id, ok := voter.UserID(); ok {
		return uuid.NullUUID{UUID: id, Valid: true}, sql.NullString{}
	}
	if ip, ok := voter.IP(); ok {
		return uuid.NullUUID{}, sql.NullString{String: ip, Valid: true}
	}
	return uuid.NullUUID{}, sql.NullString{}
}

func voterFilter(voter domain.VoterKey) (column string, value any, ok bool) {
	if id, ok := voter.UserID(); ok {
		return "user_id", id, true
	}
	if ip, ok := voter.IP(); ok {
		return "ip_address", ip, true
	}
	return "", nil, false
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVote(row rowScanner) (*domain.Vote, error) {
	var (
		vote   domain.Vote
		userID uuid.NullUUID
		ip     sql.NullString
	)
	if err := row.Scan(&vote.ID, &vote.PollID, &vote.OptionID, &userID, &ip, &vote.CreatedAt); err != nil {
		return nil, err
	}
	switch {
	case userID.Valid:
		vote.Voter = domain.AuthenticatedVoter(userID.UUID)
	case ip.Valid:
		vote.Voter = domain.AnonymousVoter(ip.String)
	}
	return &vote, nil
}
