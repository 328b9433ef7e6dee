package models

import "time"

type Book struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	ISBN           *string    `json:"isbn,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	AuthorID       int64      `json:"author_id"`
	CategoryIDs    []int64    `json:"category_ids"`
	ExternalID     *string    `json:"external_id,omitempty"`
	Publisher      string     `json:"publisher,omitempty"`
	Description    string     `json:"description,omitempty"`
	Language       string     `json:"language,omitempty"`
	PageCount      *int       `json:"page_count,omitempty"`
	SmallThumbnail string     `json:"small_thumbnail,omitempty"`
	Thumbnail      string     `json:"thumbnail,omitempty"`
	MediumImage    string     `json:"medium_image,omitempty"`
	CoverKey       *string    `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
}

// BookFilter is the three-predicate filtered find. Nil fields match everything.
type BookFilter struct {
	Title      *string
	AuthorID   *int64
	CategoryID *int64
}

type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
