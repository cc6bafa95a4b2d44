// Recipe backend implementation of [RecipeAPI]
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/shared"
)

const (
	defaultBaseURL = "http://127.0.0.1:3000/api"
	maxErrorBody   = 512
)

// RecipeServiceOptions configures a [RecipeService].
type RecipeServiceOptions struct {
	BaseURL   string
	Client    HTTPClient    // defaults to [http.DefaultClient]
	Timeout   time.Duration // per request, 0 disables
	RateLimit float64       // requests per second, 0 disables throttling
	Burst     int
	Logger    *log.Logger
}

// RecipeService talks to the recipe backend. It implements [RecipeAPI].
type RecipeService struct {
	baseURL string
	client  HTTPClient
	timeout time.Duration
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewRecipeService creates a [RecipeService] from opts.
func NewRecipeService(opts RecipeServiceOptions) *RecipeService {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &RecipeService{
		baseURL: baseURL,
		client:  client,
		timeout: opts.Timeout,
		limiter: limiter,
		logger:  logger,
	}
}

// NewRecipeServiceFromConfig builds a [RecipeService] from the [api] and [auth] config sections.
//
// A configured token is attached as a Bearer header via [NewAuthorizedClient].
func NewRecipeServiceFromConfig(ctx context.Context, cfg *shared.Config, logger *log.Logger) (*RecipeService, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	return NewRecipeService(RecipeServiceOptions{
		BaseURL:   cfg.API.BaseURL,
		Client:    NewAuthorizedClient(ctx, cfg.Auth.Token, nil),
		Timeout:   timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Logger:    logger,
	}), nil
}

// BaseURL returns the backend root every endpoint is joined to.
func (s *RecipeService) BaseURL() string { return s.baseURL }

// doRequest performs a GET against endpoint and decodes the JSON body into result.
//
// Numbers are decoded as [json.Number] so ids keep their exact form.
func (s *RecipeService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return networkError(endpoint, err)
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrInvalidArgument, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("request failed", "endpoint", endpoint, "error", err)
		return networkError(endpoint, err)
	}
	defer resp.Body.Close()

	s.logger.Debug("request", "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(endpoint, resp.StatusCode, shared.Truncate(strings.TrimSpace(string(body)), 200))
	}

	if result == nil {
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(result); err != nil {
		if ctx.Err() != nil {
			return networkError(endpoint, ctx.Err())
		}
		return decodeError(endpoint, resp.StatusCode, err)
	}

	return nil
}

func (s *RecipeService) records(ctx context.Context, endpoint string) ([]models.Record, error) {
	var records []models.Record
	if err := s.doRequest(ctx, endpoint, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// TopRecipes retrieves the top recipe list for userID.
func (s *RecipeService) TopRecipes(ctx context.Context, userID string) ([]models.Record, error) {
	return s.records(ctx, topEndpoint(userID))
}

// PersonalRecipes retrieves the recipes authored by userID.
func (s *RecipeService) PersonalRecipes(ctx context.Context, userID string) ([]models.Record, error) {
	return s.records(ctx, personalEndpoint(userID))
}

// SavedRecipes retrieves the recipes userID saved.
func (s *RecipeService) SavedRecipes(ctx context.Context, userID string) ([]models.Record, error) {
	return s.records(ctx, savedEndpoint(userID))
}

// SearchRecipes runs a free text search. query must already be trimmed and non-empty.
func (s *RecipeService) SearchRecipes(ctx context.Context, query, userID string) ([]models.Record, error) {
	if query == "" {
		return nil, shared.ErrEmptySearch
	}
	return s.records(ctx, searchEndpoint(query, userID))
}

// Author retrieves a single user. The backend answers with a one-element sequence.
func (s *RecipeService) Author(ctx context.Context, authorID string) (models.User, error) {
	endpoint := userEndpoint(authorID)
	users, err := s.records(ctx, endpoint)
	if err != nil {
		return models.User{}, err
	}
	if len(users) == 0 {
		return models.User{}, &APIError{Kind: NotFound, Endpoint: endpoint, Message: "no user returned"}
	}
	return models.NewUser(users[0]), nil
}

// Steps retrieves the ordered steps of a recipe.
func (s *RecipeService) Steps(ctx context.Context, recipeID string) ([]models.RecipeStep, error) {
	records, err := s.records(ctx, stepsEndpoint(recipeID))
	if err != nil {
		return nil, err
	}

	steps := make([]models.RecipeStep, 0, len(records))
	for _, r := range records {
		steps = append(steps, models.NewRecipeStep(r))
	}
	return steps, nil
}

// Ingredients retrieves the ordered ingredients of a recipe.
func (s *RecipeService) Ingredients(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error) {
	records, err := s.records(ctx, ingredientsEndpoint(recipeID))
	if err != nil {
		return nil, err
	}

	ingredients := make([]models.RecipeIngredient, 0, len(records))
	for _, r := range records {
		ingredients = append(ingredients, models.NewRecipeIngredient(r))
	}
	return ingredients, nil
}
