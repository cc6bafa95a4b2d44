package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/recipebox/internal/formatter"
	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/services"
	"github.com/desertthunder/recipebox/internal/shared"
	"github.com/desertthunder/recipebox/internal/tasks"
)

// Pinger checks that the recipe backend is reachable.
type Pinger interface {
	Ping(ctx context.Context, userID string) error
}

// RecipesHandlerOptions configures a [RecipesHandler].
type RecipesHandlerOptions struct {
	Loader tasks.LoaderOptions
	Pinger Pinger // optional, enables GET /health?deep=1
	Logger *log.Logger
}

// RecipesHandler serves recipe lists over HTTP. Every request loads into its own [tasks.RecipeList].
type RecipesHandler struct {
	api    services.RecipeAPI
	auth   services.Auth
	opts   tasks.LoaderOptions
	pinger Pinger
	logger *log.Logger
}

// NewRecipesHandler creates a handler that loads lists from api as auth's user.
func NewRecipesHandler(api services.RecipeAPI, auth services.Auth, opts RecipesHandlerOptions) *RecipesHandler {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	loaderOpts := opts.Loader
	if loaderOpts.Logger == nil {
		loaderOpts.Logger = logger
	}
	return &RecipesHandler{api: api, auth: auth, opts: loaderOpts, pinger: opts.Pinger, logger: logger}
}

// FailureView is a skipped recipe in a [ListResponse].
type FailureView struct {
	RecordID string `json:"record_id"`
	Title    string `json:"title,omitempty"`
	Call     string `json:"failed_call"`
	Error    string `json:"error"`
}

// ListResponse is the JSON body of a list or search request.
type ListResponse struct {
	RunID    string          `json:"run_id"`
	Title    string          `json:"title"`
	Mode     string          `json:"mode"`
	Query    string          `json:"query,omitempty"`
	Total    int             `json:"total"`
	Hydrated int             `json:"hydrated"`
	Failed   int             `json:"failed"`
	Recipes  []models.Recipe `json:"recipes"`
	Failures []FailureView   `json:"failures,omitempty"`
}

// Routes returns the HTTP routes this handler serves.
func (h *RecipesHandler) Routes() []string {
	return []string{"/recipes/", "/search", "/health"}
}

// ServeHTTP dispatches GET /recipes/{mode}, GET /search?q= and GET /health.
//
// List and search accept ?format=json|markdown|txt|csv and ?user= to override the configured user id.
func (h *RecipesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	switch path := r.URL.Path; {
	case path == "/health":
		h.health(w, r)
	case path == "/search":
		h.serveList(w, r, func(l *tasks.RecipeLoader) (*tasks.LoadResult, error) {
			return l.Search(r.Context(), r.URL.Query().Get("q"), nil)
		})
	case strings.HasPrefix(path, "/recipes/"):
		mode := strings.Trim(strings.TrimPrefix(path, "/recipes/"), "/")
		if strings.Contains(mode, "/") {
			writeError(w, http.StatusNotFound, fmt.Errorf("unknown path %s", path))
			return
		}
		h.serveList(w, r, func(l *tasks.RecipeLoader) (*tasks.LoadResult, error) {
			return l.Load(r.Context(), mode, nil)
		})
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown path %s", path))
	}
}

func (h *RecipesHandler) authFor(r *http.Request) services.Auth {
	if user := strings.TrimSpace(r.URL.Query().Get("user")); user != "" {
		return services.StaticAuth{UserID: user}
	}
	return h.auth
}

func (h *RecipesHandler) serveList(w http.ResponseWriter, r *http.Request, run func(*tasks.RecipeLoader) (*tasks.LoadResult, error)) {
	format, err := formatter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	list := tasks.NewRecipeList(models.TopList)
	defer list.Close()

	loader := tasks.NewRecipeLoader(h.api, h.authFor(r), list, h.opts)
	result, err := run(loader)
	if err != nil {
		h.logger.Warn("load failed", "path", r.URL.Path, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	if result.Skipped {
		writeError(w, http.StatusBadRequest, shared.ErrEmptySearch)
		return
	}

	snap := list.Snapshot()
	if format != formatter.JSON {
		w.Header().Set("Content-Type", contentType(format))
		if err := formatter.WriteList(w, snap.Title, snap.Recipes, format); err != nil {
			h.logger.Error("failed to write response", "error", err)
		}
		return
	}

	resp := ListResponse{
		RunID:    result.RunID,
		Title:    snap.Title,
		Mode:     snap.Mode.String(),
		Query:    snap.Query,
		Total:    result.Total,
		Hydrated: result.Hydrated,
		Failed:   result.Failed,
		Recipes:  snap.Recipes,
	}
	if resp.Recipes == nil {
		resp.Recipes = []models.Recipe{}
	}
	for _, f := range snap.Failures {
		resp.Failures = append(resp.Failures, FailureView{
			RecordID: f.RecordID,
			Title:    f.Title,
			Call:     f.FailedCall(),
			Error:    f.Err.Error(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RecipesHandler) health(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok"}

	if r.URL.Query().Has("deep") && h.pinger != nil {
		if err := h.pinger.Ping(r.Context(), h.authFor(r).ID()); err != nil {
			body["status"] = "degraded"
			body["backend"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		body["backend"] = "ok"
	}

	writeJSON(w, http.StatusOK, body)
}

// statusFor maps a load error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrEmptySearch), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrNetwork), errors.Is(err, shared.ErrServer):
		return http.StatusBadGateway
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func contentType(f formatter.Format) string {
	switch f {
	case formatter.Markdown:
		return "text/markdown; charset=utf-8"
	case formatter.CSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := formatter.ToJSON(v, false)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
