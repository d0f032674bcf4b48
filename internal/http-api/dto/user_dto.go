package dto

import (
	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/service"
)

// UserResponse is the user projection returned by relation endpoints.
type UserResponse struct {
	Email     string `json:"email"`
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func FromUser(u models.User) UserResponse {
	return UserResponse{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// SubscriptionResponse is one followed author in the subscriptions feed.
type SubscriptionResponse struct {
	Email        string          `json:"email"`
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	IsSubscribed bool            `json:"is_subscribed"`
	Recipes      []RecipeMinimal `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func FromSubscription(sub service.Subscription) SubscriptionResponse {
	recipes := make([]RecipeMinimal, 0, len(sub.Recipes))
	for _, recipe := range sub.Recipes {
		recipes = append(recipes, FromRecipeMinimal(recipe))
	}
	return SubscriptionResponse{
		Email:        sub.Author.Email,
		ID:           sub.Author.ID,
		Username:     sub.Author.Username,
		FirstName:    sub.Author.FirstName,
		LastName:     sub.Author.LastName,
		IsSubscribed: true,
		Recipes:      recipes,
		RecipesCount: sub.RecipesCount,
	}
}
