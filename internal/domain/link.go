package domain

import "time"

type Link struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	CustomAlias string     `json:"custom_alias,omitempty"`
	Destination string     `json:"destination"`
	OwnerID     *int64     `json:"owner_id,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	ClickCount  int64      `json:"click_count"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastClickAt *time.Time `json:"last_clicked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Code returns the identifier the link is reachable under. The custom
// alias wins when present, otherwise the generated short code.
func (l *Link) Code() string {
	if l.CustomAlias != "" {
		return l.CustomAlias
	}
	return l.ShortCode
}

func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

type CreateLinkRequest struct {
	Destination string   `json:"destination" validate:"required"`
	CustomAlias string   `json:"custom_alias,omitempty" validate:"omitempty,min=3,max=50,alias"`
	Title       string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=40"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// UpdateLinkRequest carries the owner-mutable fields. Pointers
// distinguish "leave untouched" from "set to zero value"; ClearExpiry
// distinguishes clearing the expiration from not sending it.
type UpdateLinkRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	Tags        *[]string  `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=40"`
	IsActive    *bool      `json:"is_active,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ClearExpiry bool       `json:"clear_expiry,omitempty"`
}

type ListLinksParams struct {
	OwnerID   int64
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder string
}

type LinkPage struct {
	Links      []Link `json:"links"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
