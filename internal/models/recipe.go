package models

import (
	"fmt"
	"strings"
)

// User is a recipe author's profile.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// NewUser converts a user [Record] into a [User].
func NewUser(r Record) User {
	return User{
		ID:        r.String("id", "user_id"),
		Username:  r.String("username"),
		Name:      r.String("name", "display_name"),
		FirstName: r.String("first_name", "firstname"),
		LastName:  r.String("last_name", "lastname"),
		Email:     r.String("email"),
		Bio:       r.String("bio"),
		AvatarURL: r.String("avatar_url", "profile_picture", "image_url"),
	}
}

// DisplayName returns the best human-readable name: name, then first + last, then username, then the id.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	if u.Username != "" {
		return u.Username
	}
	if u.ID != "" {
		return "user #" + u.ID
	}
	return "unknown"
}

// RecipeStep is one instruction of a recipe.
type RecipeStep struct {
	ID       string `json:"id,omitempty"`
	RecipeID string `json:"recipe_id,omitempty"`
	Number   int    `json:"step_number,omitempty"`
	Text     string `json:"text"`
}

// NewRecipeStep converts a step [Record] into a [RecipeStep].
func NewRecipeStep(r Record) RecipeStep {
	return RecipeStep{
		ID:       r.String("id", "step_id"),
		RecipeID: r.String("recipe_id"),
		Number:   r.Int("step_number", "number", "order"),
		Text:     r.String("text", "instruction", "description"),
	}
}

// RecipeIngredient is one ingredient line of a recipe.
type RecipeIngredient struct {
	ID       string  `json:"id,omitempty"`
	RecipeID string  `json:"recipe_id,omitempty"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// NewRecipeIngredient converts an ingredient [Record] into a [RecipeIngredient].
func NewRecipeIngredient(r Record) RecipeIngredient {
	return RecipeIngredient{
		ID:       r.String("id", "ingredient_id"),
		RecipeID: r.String("recipe_id"),
		Name:     r.String("name", "ingredient"),
		Quantity: r.Float("quantity", "amount"),
		Unit:     r.String("unit", "measurement"),
	}
}

// String renders the ingredient as "2 cup flour", omitting missing parts.
func (i RecipeIngredient) String() string {
	var parts []string
	if i.Quantity != 0 {
		parts = append(parts, fmt.Sprintf("%g", i.Quantity))
	}
	if i.Unit != "" {
		parts = append(parts, i.Unit)
	}
	parts = append(parts, i.Name)
	return strings.Join(parts, " ")
}

// Recipe is a fully hydrated recipe: its author, steps and ingredients have all been resolved.
type Recipe struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	AuthorID    string             `json:"author_id"`
	Author      User               `json:"author"`
	Steps       []RecipeStep       `json:"steps"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	ImageURL    string             `json:"image_url,omitempty"`
	CreatedAt   string             `json:"created_at,omitempty"`
	Likes       int                `json:"likes,omitempty"`
	Saved       bool               `json:"saved,omitempty"`
}

// NewRecipe assembles a [Recipe] from the raw recipe [Record] and its resolved sub-resources.
//
// Step and ingredient order is kept exactly as given.
func NewRecipe(r Record, author User, steps []RecipeStep, ingredients []RecipeIngredient) Recipe {
	if steps == nil {
		steps = []RecipeStep{}
	}
	if ingredients == nil {
		ingredients = []RecipeIngredient{}
	}

	return Recipe{
		ID:          r.String("id", "recipe_id"),
		Title:       r.String("title", "name"),
		Description: r.String("description", "summary"),
		AuthorID:    r.String("author_id"),
		Author:      author,
		Steps:       steps,
		Ingredients: ingredients,
		ImageURL:    r.String("image_url", "image", "photo"),
		CreatedAt:   r.String("created_at", "created"),
		Likes:       r.Int("likes", "like_count"),
		Saved:       r.Bool("saved", "is_saved"),
	}
}

// RecordID returns the backend id of a raw recipe record.
func RecordID(r Record) string {
	return r.String("id", "recipe_id")
}

// AuthorID returns the author id of a raw recipe record.
func AuthorID(r Record) string {
	return r.String("author_id")
}
