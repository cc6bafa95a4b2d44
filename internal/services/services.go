// package services defines the recipe backend client and the capabilities it is built from
package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/recipebox/internal/models"
)

// HTTPClient is the transport capability a client is built on. [*http.Client] satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Auth provides the identity used for user-scoped endpoints.
type Auth interface {
	// ID returns the signed-in user's id, or "" when nobody is signed in.
	ID() string
}

// StaticAuth is an [Auth] backed by configuration values.
type StaticAuth struct {
	UserID string
	Token  string
}

// ID returns the configured user id.
func (a StaticAuth) ID() string { return a.UserID }

// RecipeAPI defines the calls a recipe list needs from the backend.
//
// List calls return raw records in server order (oldest first). Hydration calls return typed sub-resources.
type RecipeAPI interface {
	// TopRecipes calls GET /recipe/top/{userID}.
	TopRecipes(ctx context.Context, userID string) ([]models.Record, error)

	// PersonalRecipes calls GET /recipe/user/{userID}/{userID}.
	PersonalRecipes(ctx context.Context, userID string) ([]models.Record, error)

	// SavedRecipes calls GET /user/save/{userID}.
	SavedRecipes(ctx context.Context, userID string) ([]models.Record, error)

	// SearchRecipes calls GET /recipe/search/"{escaped query}"/{userID}.
	SearchRecipes(ctx context.Context, query, userID string) ([]models.Record, error)

	// Author calls GET /user/{authorID} and returns the first user of the response.
	Author(ctx context.Context, authorID string) (models.User, error)

	// Steps calls GET /recipe/{recipeID}/steps/.
	Steps(ctx context.Context, recipeID string) ([]models.RecipeStep, error)

	// Ingredients calls GET /recipe/{recipeID}/ingredients/.
	Ingredients(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error)
}
