package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
)

// Subscription is one followed author together with their recipes.
type Subscription struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// FollowService toggles (user, author) subscriptions and builds the
// subscriptions feed.
type FollowService struct {
	relation   *RelationService[models.Follow, string]
	userRepo   repository.UserRepository
	recipeRepo *repository.RecipeRepo
}

func NewFollowService(repo *repository.RelationRepository[models.Follow, string], userRepo repository.UserRepository, recipeRepo *repository.RecipeRepo) *FollowService {
	return &FollowService{
		relation:   NewRelationService(repo, "already subscribed to this author"),
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
	}
}

// Subscribe follows the author and returns them for the response projection.
// Self-follow is rejected.
func (s *FollowService) Subscribe(ctx context.Context, userID, authorID string) (*models.User, error) {
	if userID == authorID {
		return nil, fmt.Errorf("%w: cannot subscribe to yourself", ErrValidation)
	}
	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, authorID)
		}
		return nil, err
	}
	if err := s.relation.Add(ctx, userID, authorID); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *FollowService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	return s.relation.Remove(ctx, userID, authorID)
}

func (s *FollowService) IsSubscribed(ctx context.Context, userID, authorID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.relation.Exists(ctx, userID, authorID)
}

// Subscriptions returns every author the user follows, each with their
// recipes and recipe count, in subscription order.
func (s *FollowService) Subscriptions(ctx context.Context, userID string) ([]Subscription, error) {
	follows, err := s.relation.List(ctx, userID, "Author")
	if err != nil {
		return nil, err
	}

	subs := make([]Subscription, 0, len(follows))
	for _, follow := range follows {
		if follow.Author == nil {
			continue
		}
		recipes, err := s.recipeRepo.ListByAuthor(ctx, follow.AuthorID)
		if err != nil {
			return nil, err
		}
		subs = append(subs, Subscription{
			Author:       *follow.Author,
			Recipes:      recipes,
			RecipesCount: int64(len(recipes)),
		})
	}
	return subs, nil
}
