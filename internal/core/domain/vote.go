package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"pollId"`
	OptionID  uuid.UUID `json:"optionId"`
	Voter     VoterKey  `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type voterKind uint8

const (
	voterNone voterKind = iota
	voterUser
	voterIP
)

// VoterKey identifies who cast a vote: an authenticated user or, failing
// that, the anonymous client address. Exactly one of the two is ever set.
type VoterKey struct {
	kind   voterKind
	userID uuid.UUID
	ip     string
}

func AuthenticatedVoter(userID uuid.UUID) VoterKey {
	return VoterKey{kind: voterUser, userID: userID}
}

func AnonymousVoter(ip string) VoterKey {
	return VoterKey{kind: voterIP, ip: ip}
}

// ResolveVoter prefers the authenticated user and falls back to the address.
func ResolveVoter(userID *uuid.UUID, ip string) (VoterKey, error) {
	if userID != nil && *userID != uuid.Nil {
		return AuthenticatedVoter(*userID), nil
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return VoterKey{}, ErrUnauthenticated
	}
	return AnonymousVoter(ip), nil
}

func (k VoterKey) UserID() (uuid.UUID, bool) {
	return k.userID, k.kind == voterUser
}

func (k VoterKey) IP() (string, bool) {
	return k.ip, k.kind == voterIP
}

func (k VoterKey) IsZero() bool {
	return k.kind == voterNone
}

func (k VoterKey) String() string {
	switch k.kind {
	case voterUser:
		return "user:" + k.userID.String()
	case voterIP:
		return "ip:" + k.ip
	default:
		return "none"
	}
}
