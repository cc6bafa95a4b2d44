package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/recipebox/internal/formatter"
	"github.com/desertthunder/recipebox/internal/models"
	tu "github.com/desertthunder/recipebox/internal/testing"
)

func exportRecipes() []models.Recipe {
	return []models.Recipe{
		{ID: "1", Title: "Pancakes", Author: models.User{Name: "A"}, Steps: []models.RecipeStep{{Text: "mix"}}},
		{ID: "2", Title: "Omelette", Ingredients: []models.RecipeIngredient{{Name: "egg", Quantity: 2}}},
		{ID: "3", Title: "Toast"},
	}
}

func TestExport(t *testing.T) {
	t.Run("Writes Files And Manifest", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		prog := make(chan ProgressUpdate, 32)

		result, err := Export(context.Background(), prog, "Top Recipes", exportRecipes(), ExportOpts{
			Format:     formatter.JSON,
			OutputDir:  dir,
			NumWorkers: 2,
		})
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		if result.TotalRecipes != 3 || result.SuccessfulExports != 3 || result.FailedExports != 0 {
			t.Errorf("unexpected counts %+v", result)
		}
		for _, res := range result.Results {
			for _, f := range res.Files {
				tu.AssertFileExists(t, f)
			}
		}

		var manifest ExportResult
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		if manifest.Title != "Top Recipes" || manifest.Format != formatter.JSON || len(manifest.Results) != 3 {
			t.Errorf("unexpected manifest %+v", manifest)
		}

		close(prog)
		exports := 0
		for u := range prog {
			if u.Phase == ExportRecipe {
				exports++
			}
		}
		if exports != 6 {
			t.Errorf("expected queued and completed updates for each recipe, got %d", exports)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		wd := t.TempDir()
		t.Chdir(wd)

		result, err := Export(context.Background(), nil, "Saved Recipes", exportRecipes()[:1], ExportOpts{NumWorkers: 50})
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if result.Format != formatter.JSON {
			t.Errorf("expected json default, got %s", result.Format)
		}
		if !strings.HasPrefix(result.OutputDirectory, "recipes_export_") {
			t.Errorf("unexpected default directory %s", result.OutputDirectory)
		}
	})

	t.Run("Single Recipe Failure", func(t *testing.T) {
		dir := t.TempDir()
		recipes := exportRecipes()

		blocker := filepath.Join(dir, formatter.FileName(recipes[1]))
		if err := os.WriteFile(blocker, []byte("in the way"), 0644); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}

		result, err := Export(context.Background(), nil, "Top Recipes", recipes, ExportOpts{Format: formatter.Markdown, OutputDir: dir})
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		if result.SuccessfulExports != 2 || result.FailedExports != 1 {
			t.Errorf("unexpected counts %+v", result)
		}
		for _, res := range result.Results {
			if res.RecipeID == "2" && (res.Success || res.Message == "") {
				t.Errorf("expected recipe 2 to fail, got %+v", res)
			}
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := Export(ctx, nil, "Top Recipes", exportRecipes(), ExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result.FailedExports != 3 || result.ManifestPath != "" {
			t.Errorf("expected every recipe to fail without a manifest, got %+v", result)
		}
	})

	t.Run("Bad Output Directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, nil, 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := Export(context.Background(), nil, "Top Recipes", exportRecipes(), ExportOpts{OutputDir: filepath.Join(file, "sub")}); err == nil {
			t.Error("expected error creating output directory")
		}
	})
}
