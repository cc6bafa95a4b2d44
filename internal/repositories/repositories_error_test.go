package repositories

import (
	"testing"

	"github.com/desertthunder/recipebox/internal/models"
)

func TestRecipeRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRecipeRepository(db)
			if err := repo.Create(models.NewCachedRecipe(0, models.TopList, models.Recipe{Title: "No ID"})); err == nil {
				t.Fatal("expected validation error for missing recipe id")
			}
			if err := repo.Create(models.NewCachedRecipe(0, models.TopList, models.Recipe{ID: "1"})); err == nil {
				t.Fatal("expected validation error for missing title")
			}
		})

		t.Run("DuplicateRecipeID", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRecipeRepository(db)
			if err := repo.Create(models.NewCachedRecipe(0, models.TopList, sampleRecipe("1", "One"))); err != nil {
				t.Fatalf("failed to create first recipe: %v", err)
			}
			if err := repo.Create(models.NewCachedRecipe(0, models.SavedList, sampleRecipe("1", "Again"))); err == nil {
				t.Fatal("expected error when caching the same recipe id twice")
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			repo := NewRecipeRepository(db)
			if err := repo.Create(models.NewCachedRecipe(0, models.TopList, sampleRecipe("1", "One"))); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRecipeRepository(db)
			if _, err := repo.Get("nonexistent-id"); err == nil {
				t.Fatal("expected error when getting nonexistent recipe")
			}
			if _, err := repo.GetByRecipeID("404"); err == nil {
				t.Fatal("expected error when getting nonexistent recipe id")
			}
		})

		t.Run("CorruptPayload", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRecipeRepository(db)
			cached := models.NewCachedRecipe(0, models.TopList, sampleRecipe("1", "One"))
			if err := repo.Create(cached); err != nil {
				t.Fatalf("failed to create recipe: %v", err)
			}
			if _, err := db.Exec(`UPDATE recipes SET payload = '{' WHERE id = ?`, cached.ID()); err != nil {
				t.Fatalf("failed to corrupt payload: %v", err)
			}

			if _, err := repo.Get(cached.ID()); err == nil {
				t.Fatal("expected error for corrupt payload")
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRecipeRepository(db)
			cached := models.NewCachedRecipe(0, models.TopList, sampleRecipe("1", "One"))
			cached.SetID("nonexistent-id")

			if err := repo.Update(cached); err == nil {
				t.Fatal("expected error when updating nonexistent recipe")
			}
		})

		t.Run("Deleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRecipeRepository(db)
			cached := models.NewCachedRecipe(0, models.TopList, sampleRecipe("1", "One"))
			if err := repo.Create(cached); err != nil {
				t.Fatalf("failed to create recipe: %v", err)
			}
			if err := repo.Delete(cached.ID()); err != nil {
				t.Fatalf("failed to delete recipe: %v", err)
			}

			if err := repo.Update(cached); err == nil {
				t.Fatal("expected error when updating deleted recipe")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Twice", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewRecipeRepository(db)
			cached := models.NewCachedRecipe(0, models.TopList, sampleRecipe("1", "One"))
			if err := repo.Create(cached); err != nil {
				t.Fatalf("failed to create recipe: %v", err)
			}
			if err := repo.Delete(cached.ID()); err != nil {
				t.Fatalf("failed to delete recipe: %v", err)
			}
			if err := repo.Delete(cached.ID()); err == nil {
				t.Fatal("expected error when deleting twice")
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if _, err := NewRecipeRepository(db).List(map[string]any{}); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})
}

func TestLoadRunRepositoryErrors(t *testing.T) {
	t.Run("ValidationError", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLoadRunRepository(db)
		if err := repo.Create(models.NewLoadRun(0, models.SearchList, "")); err == nil {
			t.Fatal("expected validation error for search without query")
		}

		run := models.NewLoadRun(0, models.TopList, "")
		run.Finish(models.LoadCompleted, 1, 2, 0, nil)
		if err := repo.Create(run); err == nil {
			t.Fatal("expected validation error for inconsistent counts")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLoadRunRepository(db)
		if _, err := repo.Get("nonexistent-id"); err == nil {
			t.Fatal("expected error when getting nonexistent run")
		}
		if err := repo.Delete("nonexistent-id"); err == nil {
			t.Fatal("expected error when deleting nonexistent run")
		}

		run := models.NewLoadRun(0, models.TopList, "")
		run.SetID("nonexistent-id")
		if err := repo.Update(run); err == nil {
			t.Fatal("expected error when updating nonexistent run")
		}
	})

	t.Run("DuplicateRunID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewLoadRunRepository(db)
		first := models.NewLoadRun(0, models.TopList, "")
		first.SetID("same")
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		second := models.NewLoadRun(0, models.TopList, "")
		second.SetID("same")
		if err := repo.Create(second); err == nil {
			t.Fatal("expected error for duplicate run id")
		}
	})
}
