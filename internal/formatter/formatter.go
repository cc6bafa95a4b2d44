// package formatter renders recipes as JSON, CSV, Markdown and plain text, and writes exports to disk
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/shared"
)

// Format is an export format.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
)

// ParseFormat maps a format flag to a [Format]. "" is JSON; "md" and "text" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (json, csv, markdown, txt)", shared.ErrInvalidArgument, s)
	}
}

// ToJSON marshals v, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// RecipesToCSV renders one row per recipe with columns: ID, Title, Author, Steps, Ingredients, Likes, Saved
func RecipesToCSV(recipes []models.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "Steps", "Ingredients", "Likes", "Saved"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, recipe := range recipes {
		record := []string{
			recipe.ID,
			recipe.Title,
			recipe.Author.DisplayName(),
			strconv.Itoa(len(recipe.Steps)),
			strconv.Itoa(len(recipe.Ingredients)),
			strconv.Itoa(recipe.Likes),
			strconv.FormatBool(recipe.Saved),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// IngredientsToCSV renders a recipe's ingredients with columns: Position, Name, Quantity, Unit
func IngredientsToCSV(recipe models.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "Name", "Quantity", "Unit"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, ing := range recipe.Ingredients {
		quantity := ""
		if ing.Quantity != 0 {
			quantity = strconv.FormatFloat(ing.Quantity, 'f', -1, 64)
		}
		if err := writer.Write([]string{strconv.Itoa(i + 1), ing.Name, quantity, ing.Unit}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RecipeToMarkdown renders a single recipe with an optional image reference.
func RecipeToMarkdown(recipe models.Recipe, imageFilename string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", recipe.Title))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", recipe.Title, imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Author**: %s\n", recipe.Author.DisplayName()))
	if recipe.Likes > 0 {
		buf.WriteString(fmt.Sprintf("**Likes**: %d\n", recipe.Likes))
	}
	if recipe.Saved {
		buf.WriteString("**Saved**: yes\n")
	}
	buf.WriteString("\n")

	if recipe.Description != "" {
		buf.WriteString(recipe.Description + "\n\n")
	}

	buf.WriteString("## Ingredients\n\n")
	if len(recipe.Ingredients) == 0 {
		buf.WriteString("_None listed_\n")
	}
	for _, ing := range recipe.Ingredients {
		buf.WriteString(fmt.Sprintf("- %s\n", ing.String()))
	}

	buf.WriteString("\n## Steps\n\n")
	if len(recipe.Steps) == 0 {
		buf.WriteString("_None listed_\n")
	}
	for i, step := range recipe.Steps {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, step.Text))
	}

	return buf.Bytes()
}

// RecipesToMarkdown renders a list heading and one line per recipe.
func RecipesToMarkdown(title string, recipes []models.Recipe) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Recipes**: %d\n\n", len(recipes)))

	for i, recipe := range recipes {
		buf.WriteString(fmt.Sprintf("%d. **%s** by %s (%d steps, %d ingredients)\n",
			i+1, recipe.Title, recipe.Author.DisplayName(), len(recipe.Steps), len(recipe.Ingredients)))
	}

	return buf.Bytes()
}

// RecipeToText renders a single recipe as plain text.
func RecipeToText(recipe models.Recipe) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Recipe: %s\n", recipe.Title))
	buf.WriteString(fmt.Sprintf("Author: %s\n", recipe.Author.DisplayName()))
	if recipe.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", recipe.Description))
	}

	buf.WriteString(fmt.Sprintf("\nIngredients (%d):\n", len(recipe.Ingredients)))
	for _, ing := range recipe.Ingredients {
		buf.WriteString(fmt.Sprintf("  - %s\n", ing.String()))
	}

	buf.WriteString(fmt.Sprintf("\nSteps (%d):\n", len(recipe.Steps)))
	for i, step := range recipe.Steps {
		buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step.Text))
	}

	return buf.Bytes()
}

// RecipesToText renders a list heading and one line per recipe.
func RecipesToText(title string, recipes []models.Recipe) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Recipes: %d\n\n", len(recipes)))

	for i, recipe := range recipes {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, recipe.Title, recipe.Author.DisplayName()))
	}

	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes.
//
// client defaults to an [http.Client] with a 30 second timeout.
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// FileName returns a filesystem-safe base name for a recipe: "{id}-{slug}".
func FileName(recipe models.Recipe) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(recipe.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteRune('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 48 {
		slug = strings.TrimRight(slug[:48], "-")
	}

	id := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, recipe.ID)

	if slug == "" {
		return id
	}
	return id + "-" + slug
}

// WriteOptions controls [WriteRecipe].
type WriteOptions struct {
	Format         Format
	OutputDir      string
	DownloadImages bool         // markdown only
	ImageClient    *http.Client // used when DownloadImages is set
}

// WriteRecipe writes one recipe under opts.OutputDir and returns the created file paths.
//
//	json     {dir}/{name}.json
//	csv      {dir}/{name}_ingredients.csv + {dir}/{name}_metadata.json
//	markdown {dir}/{name}/README.md (+ image.jpg when downloaded)
//	txt      {dir}/{name}.txt
func WriteRecipe(recipe models.Recipe, opts WriteOptions) ([]string, error) {
	base := filepath.Join(opts.OutputDir, FileName(recipe))

	switch opts.Format {
	case CSV:
		data, err := IngredientsToCSV(recipe)
		if err != nil {
			return nil, fmt.Errorf("failed to generate CSV: %w", err)
		}
		csvFile := base + "_ingredients.csv"
		if err := os.WriteFile(csvFile, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write CSV file: %w", err)
		}

		meta := recipe
		meta.Ingredients = nil
		metaJSON, err := ToJSON(meta, true)
		if err != nil {
			return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
		}
		metaFile := base + "_metadata.json"
		if err := os.WriteFile(metaFile, metaJSON, 0644); err != nil {
			return nil, fmt.Errorf("failed to write metadata file: %w", err)
		}
		return []string{csvFile, metaFile}, nil

	case Markdown:
		if err := os.MkdirAll(base, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}

		var files []string
		var imageFilename string
		if opts.DownloadImages && recipe.ImageURL != "" {
			if data, err := DownloadImage(opts.ImageClient, recipe.ImageURL); err == nil {
				imagePath := filepath.Join(base, "image.jpg")
				if err := os.WriteFile(imagePath, data, 0644); err == nil {
					imageFilename = "image.jpg"
					files = append(files, imagePath)
				}
			}
		}

		mdFile := filepath.Join(base, "README.md")
		if err := os.WriteFile(mdFile, RecipeToMarkdown(recipe, imageFilename), 0644); err != nil {
			return nil, fmt.Errorf("failed to write Markdown file: %w", err)
		}
		return append(files, mdFile), nil

	case Text:
		txtFile := base + ".txt"
		if err := os.WriteFile(txtFile, RecipeToText(recipe), 0644); err != nil {
			return nil, fmt.Errorf("failed to write text file: %w", err)
		}
		return []string{txtFile}, nil

	default:
		data, err := ToJSON(recipe, true)
		if err != nil {
			return nil, fmt.Errorf("JSON marshal failed: %w", err)
		}
		jsonFile := base + ".json"
		if err := os.WriteFile(jsonFile, data, 0644); err != nil {
			return nil, fmt.Errorf("JSON write failed: %w", err)
		}
		return []string{jsonFile}, nil
	}
}

// WriteList renders a whole list in format to w.
func WriteList(w io.Writer, title string, recipes []models.Recipe, format Format) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case CSV:
		data, err = RecipesToCSV(recipes)
	case Markdown:
		data = RecipesToMarkdown(title, recipes)
	case Text:
		data = RecipesToText(title, recipes)
	default:
		data, err = ToJSON(struct {
			Title   string          `json:"title"`
			Recipes []models.Recipe `json:"recipes"`
		}{title, recipes}, true)
		if err == nil {
			data = append(data, '\n')
		}
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
