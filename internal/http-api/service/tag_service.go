package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/cache"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
)

const tagListCacheKey = "tags:all"

// TagService serves tag reference data. Reads go through the redis cache
// when it is available.
type TagService struct {
	repo  *repository.TagRepo
	cache *cache.Client
}

func NewTagService(repo *repository.TagRepo, cache *cache.Client) *TagService {
	return &TagService{repo: repo, cache: cache}
}

func (s *TagService) GetAll(ctx context.Context) ([]models.Tag, error) {
	var cached []models.Tag
	if hit, err := s.cache.GetJSON(ctx, tagListCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	tags, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	// best effort; a cache write failure never fails the read
	_ = s.cache.SetJSON(ctx, tagListCacheKey, tags)
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tag %d", ErrNotFound, id)
		}
		return nil, err
	}
	return tag, nil
}

// Create adds a tag (administrators only, enforced at the boundary).
func (s *TagService) Create(ctx context.Context, tag *models.Tag) error {
	if tag.Name == "" || tag.Slug == "" {
		return fmt.Errorf("%w: tag name and slug are required", ErrValidation)
	}
	if err := s.repo.Create(ctx, tag); err != nil {
		if repository.IsDuplicateKey(err) {
			return fmt.Errorf("%w: tag %q", ErrConflict, tag.Name)
		}
		return err
	}
	_ = s.cache.Delete(ctx, tagListCacheKey)
	return nil
}
