package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/recipebox/internal/formatter"
	"github.com/desertthunder/recipebox/internal/models"
)

// ExportOpts contains configuration for recipe exports.
type ExportOpts struct {
	Format         formatter.Format // json, csv, markdown, txt
	OutputDir      string           // Base output directory (default: recipes_export_{epoch})
	NumWorkers     int              // Concurrent writers (default: 4, max: 10)
	DownloadImages bool             // Markdown only
	ImageClient    *http.Client
}

// RecipeExportResult is the outcome for one recipe.
type RecipeExportResult struct {
	RecipeID string   `json:"recipe_id"`
	Title    string   `json:"title"`
	Success  bool     `json:"success"`
	Files    []string `json:"files,omitempty"`
	Error    error    `json:"-"`
	Message  string   `json:"error,omitempty"`
}

// ExportResult summarizes an export run and is written as the manifest.
type ExportResult struct {
	Title             string               `json:"title"`
	Format            formatter.Format     `json:"format"`
	TotalRecipes      int                  `json:"total_recipes"`
	SuccessfulExports int                  `json:"successful_exports"`
	FailedExports     int                  `json:"failed_exports"`
	OutputDirectory   string               `json:"output_directory"`
	ManifestPath      string               `json:"-"`
	ExportedAt        time.Time            `json:"exported_at"`
	Results           []RecipeExportResult `json:"results"`
}

type exportJob struct {
	recipe models.Recipe
}

// Export writes each recipe to its own file(s) with a pool of workers, then writes export_manifest.json.
//
// Individual failures are recorded in the result; only setup and manifest errors are returned.
func Export(ctx context.Context, prog chan<- ProgressUpdate, title string, recipes []models.Recipe, opts ExportOpts) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("recipes_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(recipes)
	result := &ExportResult{
		Title:           title,
		Format:          opts.Format,
		TotalRecipes:    total,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now(),
		Results:         make([]RecipeExportResult, 0, total),
	}

	jobs := make(chan exportJob, total)
	results := make(chan RecipeExportResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, opts)
	}

	for i, recipe := range recipes {
		jobs <- exportJob{recipe: recipe}
		sendProgress(prog, exportingRecipeUpdate(i+1, total, recipe.Title))
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, total, res.Title, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, total, res.Title, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := formatter.ToJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker writes recipes from the jobs channel until it closes.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- RecipeExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := RecipeExportResult{RecipeID: job.recipe.ID, Title: job.recipe.Title}

		if err := ctx.Err(); err != nil {
			res.Error = err
			res.Message = err.Error()
			results <- res
			continue
		}

		files, err := formatter.WriteRecipe(job.recipe, formatter.WriteOptions{
			Format:         opts.Format,
			OutputDir:      opts.OutputDir,
			DownloadImages: opts.DownloadImages,
			ImageClient:    opts.ImageClient,
		})
		if err != nil {
			res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
			res.Message = res.Error.Error()
		} else {
			res.Success = true
			res.Files = files
		}
		results <- res
	}
}
