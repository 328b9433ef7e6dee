package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/authors"
	"github.com/5w1tchy/library-api/internal/store/categories"
)

func (s *Service) ListAuthors(ctx context.Context) ([]models.Author, error) {
	return authors.List(ctx, s.db)
}

func (s *Service) GetAuthor(ctx context.Context, id int64) (models.Author, error) {
	return authors.Get(ctx, s.db, id)
}

func (s *Service) CreateAuthor(ctx context.Context, in AuthorInput) (models.Author, error) {
	if err := in.validate(); err != nil {
		return models.Author{}, err
	}
	a := in.toAuthor()
	if err := authors.Create(ctx, s.db, &a); err != nil {
		return models.Author{}, err
	}
	return a, nil
}

func (s *Service) UpdateAuthor(ctx context.Context, id int64, in AuthorInput) (models.Author, error) {
	if err := in.validate(); err != nil {
		return models.Author{}, err
	}
	a := in.toAuthor()
	a.ID = id
	if err := authors.Update(ctx, s.db, &a); err != nil {
		return models.Author{}, err
	}
	return a, nil
}

// DeleteAuthor does not cascade; an author still referenced by books yields a conflict.
func (s *Service) DeleteAuthor(ctx context.Context, id int64) error {
	if err := authors.Delete(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("author deleted", zap.Int64("author_id", id))
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return categories.List(ctx, s.db)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	return categories.Get(ctx, s.db, id)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	if err := in.validate(); err != nil {
		return models.Category{}, err
	}
	c := models.Category{Name: in.Name}
	if err := categories.Create(ctx, s.db, &c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (models.Category, error) {
	if err := in.validate(); err != nil {
		return models.Category{}, err
	}
	c := models.Category{ID: id, Name: in.Name}
	if err := categories.Update(ctx, s.db, &c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// DeleteCategory does not cascade; a category still linked to books yields a conflict.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := categories.Delete(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("category deleted", zap.Int64("category_id", id))
	return nil
}
