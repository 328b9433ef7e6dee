package catalog

import (
	"strings"
	"time"

	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/shared"
	"github.com/5w1tchy/library-api/internal/validate"
)

type BookInput struct {
	Title          string  `json:"title" validate:"required,max=500"`
	ISBN           string  `json:"isbn" validate:"omitempty,max=20"`
	PublishedAt    string  `json:"published_at" validate:"omitempty,datetime=2006-01-02"`
	AuthorID       int64   `json:"author_id" validate:"required,gt=0"`
	CategoryIDs    []int64 `json:"category_ids" validate:"omitempty,max=20,dive,gt=0"`
	ExternalID     string  `json:"external_id" validate:"omitempty,max=64"`
	Publisher      string  `json:"publisher" validate:"omitempty,max=300"`
	Description    string  `json:"description"`
	Language       string  `json:"language" validate:"omitempty,max=16"`
	PageCount      int     `json:"page_count" validate:"omitempty,gt=0"`
	SmallThumbnail string  `json:"small_thumbnail" validate:"omitempty,url"`
	Thumbnail      string  `json:"thumbnail" validate:"omitempty,url"`
	MediumImage    string  `json:"medium_image" validate:"omitempty,url"`
}

func (in *BookInput) clean() {
	in.Title = shared.Clean(in.Title)
	in.ISBN = strings.ReplaceAll(shared.Clean(in.ISBN), "-", "")
	in.PublishedAt = strings.TrimSpace(in.PublishedAt)
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	in.Publisher = shared.Clean(in.Publisher)
	in.Language = strings.TrimSpace(in.Language)
	in.CategoryIDs = dedupIDs(in.CategoryIDs)
}

func (in BookInput) toBook() (models.Book, error) {
	b := models.Book{
		Title:          in.Title,
		AuthorID:       in.AuthorID,
		CategoryIDs:    in.CategoryIDs,
		Publisher:      in.Publisher,
		Description:    in.Description,
		Language:       in.Language,
		SmallThumbnail: in.SmallThumbnail,
		Thumbnail:      in.Thumbnail,
		MediumImage:    in.MediumImage,
	}
	if in.ISBN != "" {
		b.ISBN = &in.ISBN
	}
	if in.ExternalID != "" {
		b.ExternalID = &in.ExternalID
	}
	if in.PageCount > 0 {
		n := in.PageCount
		b.PageCount = &n
	}
	if in.PublishedAt != "" {
		d, err := time.Parse(time.DateOnly, in.PublishedAt)
		if err != nil {
			return models.Book{}, errs.Invalid("published_at", "must match 2006-01-02")
		}
		b.PublishedAt = &d
	}
	return b, nil
}

func (in *BookInput) validate() error {
	in.clean()
	return validate.Struct(in)
}

type AuthorInput struct {
	Name string `json:"name" validate:"required,max=200"`
	Bio  string `json:"bio" validate:"omitempty,max=5000"`
}

func (in *AuthorInput) validate() error {
	in.Name = shared.Clean(in.Name)
	in.Bio = strings.TrimSpace(in.Bio)
	return validate.Struct(in)
}

func (in AuthorInput) toAuthor() models.Author {
	a := models.Author{Name: in.Name}
	if in.Bio != "" {
		bio := in.Bio
		a.Bio = &bio
	}
	return a
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (in *CategoryInput) validate() error {
	in.Name = shared.Clean(in.Name)
	return validate.Struct(in)
}

func dedupIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
