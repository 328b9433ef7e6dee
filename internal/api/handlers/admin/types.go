package admin

import (
	"context"
	"time"
)

type UserRow struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	CollectionSize int       `json:"collection_size"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListFilter struct {
	Query string
	Role  string
	Page  int
	Size  int
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type StatsResponse struct {
	Users           int `json:"users"`
	Admins          int `json:"admins"`
	Books           int `json:"books"`
	Authors         int `json:"authors"`
	Categories      int `json:"categories"`
	CollectionLinks int `json:"collection_links"`
	SignupsLast24h  int `json:"signups_last_24h"`
}

//go:generate mockgen -source=types.go -destination=mocks/mock.go

type Store interface {
	ListUsers(ctx context.Context, f ListFilter) ([]UserRow, int, error)
	GetUser(ctx context.Context, id int64) (UserRow, error)
	SetUserRole(ctx context.Context, id int64, role string) error
	BumpTokenVersion(ctx context.Context, id int64) error
	AdminCount(ctx context.Context) (int, error)
	Stats(ctx context.Context) (StatsResponse, error)
}
