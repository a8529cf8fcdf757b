package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	foreignKeyViolation pq.ErrorCode = "23503"
	uniqueViolation     pq.ErrorCode = "23505"
)

const (
	constraintVotePoll       = "votes_poll_id_fkey"
	constraintVoteOptionPoll = "votes_option_poll_fkey"
	constraintUserEmail      = "users_email_key"
	constraintUserUsername   = "users_username_key"
)

// asPQError returns the driver error when err is a postgres error with the given code.
func asPQError(err error, code pq.ErrorCode) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == code {
		return pqErr, true
	}
	return nil, false
}
