package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/shared"
	th "github.com/desertthunder/recipebox/internal/testing"
)

func sampleRecipe() models.Recipe {
	return models.Recipe{
		ID:          "42",
		Title:       "Grandma's Tomato Soup",
		Description: "Warm and simple.",
		AuthorID:    "9",
		Author:      models.User{ID: "9", FirstName: "Julia", LastName: "Child"},
		Steps: []models.RecipeStep{
			{Text: "Chop the tomatoes"},
			{Text: "Simmer for 20 minutes"},
		},
		Ingredients: []models.RecipeIngredient{
			{Name: "tomatoes", Quantity: 6},
			{Name: "stock", Quantity: 0.5, Unit: "l"},
		},
		Likes: 12,
		Saved: true,
	}
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		input string
		want  Format
	}{
		{input: "", want: JSON},
		{input: "JSON", want: JSON},
		{input: "csv", want: CSV},
		{input: "md", want: Markdown},
		{input: "markdown", want: Markdown},
		{input: "text", want: Text},
		{input: "txt", want: Text},
	}

	for _, tt := range tc {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	recipe := sampleRecipe()

	t.Run("RecipesToCSV", func(t *testing.T) {
		data, err := RecipesToCSV([]models.Recipe{recipe})
		if err != nil {
			t.Fatalf("RecipesToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Title,Author,Steps,Ingredients,Likes,Saved") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "42,Grandma's Tomato Soup,Julia Child,2,2,12,true") {
			t.Errorf("CSV missing recipe row, got: %s", output)
		}
	})

	t.Run("IngredientsToCSV", func(t *testing.T) {
		data, err := IngredientsToCSV(recipe)
		if err != nil {
			t.Fatalf("IngredientsToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "1,tomatoes,6,") {
			t.Errorf("CSV missing first ingredient, got: %s", output)
		}
		if !strings.Contains(output, "2,stock,0.5,l") {
			t.Errorf("CSV missing second ingredient, got: %s", output)
		}
	})

	t.Run("RecipeToMarkdown", func(t *testing.T) {
		t.Run("without image", func(t *testing.T) {
			output := string(RecipeToMarkdown(recipe, ""))

			for _, want := range []string{
				"# Grandma's Tomato Soup",
				"**Author**: Julia Child",
				"**Likes**: 12",
				"## Ingredients",
				"- 6 tomatoes",
				"- 0.5 l stock",
				"## Steps",
				"1. Chop the tomatoes",
				"2. Simmer for 20 minutes",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q", want)
				}
			}
			if strings.Contains(output, "![") {
				t.Error("Markdown should not reference an image")
			}
		})

		t.Run("with image", func(t *testing.T) {
			output := string(RecipeToMarkdown(recipe, "image.jpg"))
			if !strings.Contains(output, "(image.jpg)") {
				t.Error("Markdown missing image reference")
			}
		})

		t.Run("empty sub-resources", func(t *testing.T) {
			output := string(RecipeToMarkdown(models.Recipe{Title: "Bare"}, ""))
			if strings.Count(output, "_None listed_") != 2 {
				t.Errorf("expected placeholders for both sections, got: %s", output)
			}
		})
	})

	t.Run("RecipeToText", func(t *testing.T) {
		output := string(RecipeToText(recipe))

		if !strings.Contains(output, "Recipe: Grandma's Tomato Soup") {
			t.Error("text missing title")
		}
		if !strings.Contains(output, "Ingredients (2):") || !strings.Contains(output, "Steps (2):") {
			t.Errorf("text missing section counts, got: %s", output)
		}
	})

	t.Run("List Renderers", func(t *testing.T) {
		recipes := []models.Recipe{recipe, {ID: "7", Title: "Toast", Author: models.User{Username: "bob"}}}

		md := string(RecipesToMarkdown("Top Recipes", recipes))
		if !strings.Contains(md, "# Top Recipes") || !strings.Contains(md, "2. **Toast** by bob") {
			t.Errorf("unexpected markdown list: %s", md)
		}

		txt := string(RecipesToText("Search Results:", recipes))
		if !strings.Contains(txt, "Search Results:\nRecipes: 2") || !strings.Contains(txt, "1. Grandma's Tomato Soup - Julia Child") {
			t.Errorf("unexpected text list: %s", txt)
		}
	})
}

func TestWriteList(t *testing.T) {
	recipes := []models.Recipe{sampleRecipe()}

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteList(&buf, "Saved Recipes", recipes, JSON); err != nil {
			t.Fatalf("WriteList failed: %v", err)
		}

		var out struct {
			Title   string          `json:"title"`
			Recipes []models.Recipe `json:"recipes"`
		}
		if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if out.Title != "Saved Recipes" || len(out.Recipes) != 1 {
			t.Errorf("unexpected output: %+v", out)
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		err := WriteList(&th.FWriter{}, "Top Recipes", recipes, Text)
		if err == nil || !strings.Contains(err.Error(), "failed to write output") {
			t.Errorf("expected write error, got %v", err)
		}
	})
}

func TestFileName(t *testing.T) {
	tc := []struct {
		recipe models.Recipe
		want   string
	}{
		{recipe: models.Recipe{ID: "42", Title: "Grandma's Tomato Soup"}, want: "42-grandma-s-tomato-soup"},
		{recipe: models.Recipe{ID: "1", Title: "!!!"}, want: "1"},
		{recipe: models.Recipe{ID: "a/b", Title: "Pie"}, want: "a_b-pie"},
	}

	for _, tt := range tc {
		if got := FileName(tt.recipe); got != tt.want {
			t.Errorf("FileName(%+v) = %q, want %q", tt.recipe, got, tt.want)
		}
	}
}

func TestWriteRecipe(t *testing.T) {
	recipe := sampleRecipe()

	t.Run("JSON", func(t *testing.T) {
		dir := t.TempDir()
		files, err := WriteRecipe(recipe, WriteOptions{Format: JSON, OutputDir: dir})
		if err != nil {
			t.Fatalf("WriteRecipe failed: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("expected 1 file, got %v", files)
		}
		th.AssertFileExists(t, files[0])

		var got models.Recipe
		if err := json.Unmarshal([]byte(th.MustReadFile(t, files[0])), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Title != recipe.Title || len(got.Steps) != 2 {
			t.Errorf("unexpected recipe: %+v", got)
		}
	})

	t.Run("CSV", func(t *testing.T) {
		dir := t.TempDir()
		files, err := WriteRecipe(recipe, WriteOptions{Format: CSV, OutputDir: dir})
		if err != nil {
			t.Fatalf("WriteRecipe failed: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("expected csv and metadata files, got %v", files)
		}
		if filepath.Base(files[0]) != "42-grandma-s-tomato-soup_ingredients.csv" {
			t.Errorf("unexpected csv name %s", files[0])
		}
		if strings.Contains(th.MustReadFile(t, files[1]), `"quantity"`) {
			t.Error("metadata should not repeat ingredients")
		}
	})

	t.Run("Markdown With Image", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("fake-jpeg"))
		}))
		defer server.Close()

		withImage := recipe
		withImage.ImageURL = server.URL + "/soup.jpg"

		dir := t.TempDir()
		files, err := WriteRecipe(withImage, WriteOptions{Format: Markdown, OutputDir: dir, DownloadImages: true, ImageClient: server.Client()})
		if err != nil {
			t.Fatalf("WriteRecipe failed: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("expected image and README, got %v", files)
		}
		if th.MustReadFile(t, files[0]) != "fake-jpeg" {
			t.Error("unexpected image contents")
		}
		if !strings.Contains(th.MustReadFile(t, files[1]), "(image.jpg)") {
			t.Error("README should reference the downloaded image")
		}
	})

	t.Run("Markdown Image Failure Is Skipped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		withImage := recipe
		withImage.ImageURL = server.URL + "/missing.jpg"

		files, err := WriteRecipe(withImage, WriteOptions{Format: Markdown, OutputDir: t.TempDir(), DownloadImages: true})
		if err != nil {
			t.Fatalf("WriteRecipe failed: %v", err)
		}
		if len(files) != 1 || filepath.Base(files[0]) != "README.md" {
			t.Errorf("expected README only, got %v", files)
		}
	})

	t.Run("Text", func(t *testing.T) {
		files, err := WriteRecipe(recipe, WriteOptions{Format: Text, OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("WriteRecipe failed: %v", err)
		}
		if !strings.HasSuffix(files[0], ".txt") {
			t.Errorf("expected .txt file, got %s", files[0])
		}
	})

	t.Run("Missing Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "does", "not", "exist")
		if _, err := WriteRecipe(recipe, WriteOptions{Format: Text, OutputDir: dir}); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(nil, ""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Bad Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := DownloadImage(nil, server.URL)
		if err == nil || !strings.Contains(err.Error(), "status 403") {
			t.Errorf("expected status error, got %v", err)
		}
	})
}
