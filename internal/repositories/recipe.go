package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/shared"
)

// RecipeRepository implements models.Repository[*models.CachedRecipe] for hydrated recipe snapshots.
//
// Each backend recipe id is stored at most once; saving it again from any list refreshes the snapshot.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new RecipeRepository with the given database connection
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

const recipeColumns = `id, sequence, recipe_id, list_mode, payload, fetched_at, created_at, updated_at, deleted_at`

// Create inserts a new [models.CachedRecipe] into the database with generated ID and sequence
func (r *RecipeRepository) Create(cached *models.CachedRecipe) error {
	if err := cached.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	payload, err := cached.Payload()
	if err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "recipes")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	cached.SetID(id)
	cached.SetSequence(sequence)

	recipe := cached.Recipe()
	query := `
		INSERT INTO recipes (id, sequence, recipe_id, list_mode, title, author_name, step_count, ingredient_count, payload, fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		recipe.ID,
		cached.ListMode().String(),
		recipe.Title,
		recipe.Author.DisplayName(),
		len(recipe.Steps),
		len(recipe.Ingredients),
		payload,
		cached.FetchedAt(),
		cached.CreatedAt(),
		cached.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	return nil
}

// Get retrieves a cached recipe by row ID, excluding soft-deleted rows
func (r *RecipeRepository) Get(id string) (*models.CachedRecipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRecipeID retrieves a cached recipe by its backend recipe id
func (r *RecipeRepository) GetByRecipeID(recipeID string) (*models.CachedRecipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE recipe_id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, recipeID))
}

// Update replaces the snapshot, list mode and fetch time of an existing row
func (r *RecipeRepository) Update(cached *models.CachedRecipe) error {
	if err := cached.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	payload, err := cached.Payload()
	if err != nil {
		return err
	}

	now := time.Now()
	cached.SetUpdatedAt(now)

	recipe := cached.Recipe()
	query := `
		UPDATE recipes
		SET list_mode = ?, title = ?, author_name = ?, step_count = ?, ingredient_count = ?, payload = ?, fetched_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		cached.ListMode().String(),
		recipe.Title,
		recipe.Author.DisplayName(),
		len(recipe.Steps),
		len(recipe.Ingredients),
		payload,
		cached.FetchedAt(),
		now,
		cached.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	return expectOneRow(result, "recipe", cached.ID())
}

// Delete soft-deletes a cached recipe by row ID
func (r *RecipeRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE recipes SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return expectOneRow(result, "recipe", id)
}

// Clear hard-deletes every cached recipe and returns how many rows were removed.
//
// The sequence counter is left alone so sequence numbers are never reused.
func (r *RecipeRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM recipes`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear recipes: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves cached recipes, optionally filtered by "list_mode" ([models.ListMode] or its string form)
// and "title" (substring match). Rows come back in sequence order.
func (r *RecipeRepository) List(criteria map[string]any) ([]*models.CachedRecipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE deleted_at IS NULL`
	args := []any{}

	switch mode := criteria["list_mode"].(type) {
	case models.ListMode:
		query += " AND list_mode = ?"
		args = append(args, mode.String())
	case string:
		if mode != "" {
			query += " AND list_mode = ?"
			args = append(args, mode)
		}
	}

	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+title+"%")
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*models.CachedRecipe
	for rows.Next() {
		cached, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, cached)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return recipes, nil
}

func (r *RecipeRepository) scanOne(row *sql.Row) (*models.CachedRecipe, error) {
	cached, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: not cached", shared.ErrRecipeNotFound)
	}
	return cached, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(s scanner) (*models.CachedRecipe, error) {
	var (
		id        string
		sequence  int
		recipeID  string
		listMode  string
		payload   string
		fetchedAt time.Time
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := s.Scan(&id, &sequence, &recipeID, &listMode, &payload, &fetchedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}

	cached := models.NewCachedRecipe(sequence, storedMode(listMode), models.Recipe{})
	if err := cached.SetPayload(payload); err != nil {
		return nil, fmt.Errorf("recipe %s: %w", recipeID, err)
	}
	cached.SetID(id)
	cached.SetFetchedAt(fetchedAt)
	cached.SetCreatedAt(createdAt)
	cached.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		cached.SetDeletedAt(&deletedAt.Time)
	}

	return cached, nil
}

// storedMode reverses [models.ListMode.String] for values read back from the database.
func storedMode(s string) models.ListMode {
	if s == models.SearchList.String() {
		return models.SearchList
	}
	return models.ParseListMode(s)
}

func expectOneRow(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found or already deleted: %s", entity, id)
	}
	return nil
}
