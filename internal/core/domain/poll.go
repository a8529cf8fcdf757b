package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID                uuid.UUID    `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Options           []PollOption `json:"options"`
	CreatedAt         time.Time    `json:"createdAt"`
	ExpiresAt         *time.Time   `json:"expiresAt"`
	IsPublic          bool         `json:"isPublic"`
	CreatedByID       uuid.UUID    `json:"-"`
	CreatedByUsername string       `json:"createdByUsername"`
}

type PollOption struct {
	ID     uuid.UUID `json:"id"`
	PollID uuid.UUID `json:"-"`
	Text   string    `json:"text"`
}

// IsExpired reports whether the poll's expiry is strictly before now.
func (p *Poll) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// IsListed reports whether the poll shows up in the public listing.
func (p *Poll) IsListed(now time.Time) bool {
	return p.IsPublic || p.ExpiresAt == nil || p.ExpiresAt.After(now)
}

func (p *Poll) HasOption(optionID uuid.UUID) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

func (p *Poll) OwnedBy(userID uuid.UUID) bool {
	return p.CreatedByID == userID
}

// PollAggregate is a poll read together with every vote cast on it.
type PollAggregate struct {
	Poll  Poll
	Votes []Vote
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func NewPage[T any](items []T, page, pageSize, totalItems int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
