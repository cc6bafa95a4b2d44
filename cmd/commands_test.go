package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/repositories"
	"github.com/desertthunder/recipebox/internal/services"
	"github.com/desertthunder/recipebox/internal/shared"
	tu "github.com/desertthunder/recipebox/internal/testing"
)

func TestListCommand(t *testing.T) {
	t.Run("Prints Saved List As JSON", func(t *testing.T) {
		api := seededAPI()
		runner, out := testRunner(t, api, false)

		if err := runCLI(runner, "list", "--mode", "saved", "--format", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var body struct {
			Title   string          `json:"title"`
			Recipes []models.Recipe `json:"recipes"`
		}
		if err := json.Unmarshal(out.Bytes(), &body); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out.String())
		}
		if body.Title != "Saved Recipes" || len(body.Recipes) != 1 || body.Recipes[0].Title != "Toast" {
			t.Errorf("unexpected body %+v", body)
		}
		if n := api.CallCount("saved:u1"); n != 1 {
			t.Errorf("expected exactly one saved fetch, got %d", n)
		}
	})

	t.Run("Defaults To Configured Mode", func(t *testing.T) {
		api := seededAPI()
		runner, out := testRunner(t, api, false)

		if err := runCLI(runner, "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "1. Pancakes - A") || !strings.Contains(out.String(), "2. Omelette - A") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("Reports Skipped Recipes", func(t *testing.T) {
		api := seededAPI()
		api.Errors["steps:2"] = errors.New("boom")
		runner, out := testRunner(t, api, false)

		if err := runCLI(runner, "list", "--mode", "top"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "1 of 2 recipes skipped") || !strings.Contains(got, "2 (steps lookup): boom") {
			t.Errorf("expected failure summary, got:\n%s", got)
		}
	})

	t.Run("Fetch Error", func(t *testing.T) {
		api := seededAPI()
		api.Errors["top:u1"] = errors.New("connection refused")
		runner, _ := testRunner(t, api, false)

		err := runCLI(runner, "list")
		if err == nil || !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected fetch error, got %v", err)
		}
	})

	t.Run("Rejects Unknown Format", func(t *testing.T) {
		api := seededAPI()
		runner, _ := testRunner(t, api, false)

		if err := runCLI(runner, "list", "--format", "yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(api.Calls()) != 0 {
			t.Errorf("expected no requests, got %v", api.Calls())
		}
	})

	t.Run("Without Service", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &strings.Builder{}})

		if err := runCLI(runner, "list"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestSearchCommand(t *testing.T) {
	t.Run("Trims And Searches", func(t *testing.T) {
		api := seededAPI()
		runner, out := testRunner(t, api, false)

		if err := runCLI(runner, "search", "  soup "); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if api.CallCount("search:soup:u1") != 1 {
			t.Errorf("expected trimmed search, got %v", api.Calls())
		}
		if !strings.Contains(out.String(), models.SearchTitle) || !strings.Contains(out.String(), "Tomato Soup") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("Blank Text Sends Nothing", func(t *testing.T) {
		api := seededAPI()
		runner, out := testRunner(t, api, false)

		if err := runCLI(runner, "search", "   "); !errors.Is(err, shared.ErrEmptySearch) {
			t.Errorf("expected ErrEmptySearch, got %v", err)
		}
		if len(api.Calls()) != 0 {
			t.Errorf("expected no requests, got %v", api.Calls())
		}
		if out.Len() != 0 {
			t.Errorf("expected no output, got %q", out.String())
		}
	})
}

func TestCacheCommands(t *testing.T) {
	api := seededAPI()
	runner, out := testRunner(t, api, true)

	if err := runCLI(runner, "list", "--format", "json"); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	repo := repositories.NewRecipeRepository(runner.db)
	cached, err := repo.List(nil)
	if err != nil {
		t.Fatalf("failed to list cache: %v", err)
	}
	if len(cached) != 2 {
		t.Fatalf("expected 2 cached recipes, got %d", len(cached))
	}

	t.Run("List", func(t *testing.T) {
		out.Reset()
		if err := runCLI(runner, "cache", "list", "--title", "pan"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "Pancakes") || strings.Contains(got, "Omelette") {
			t.Errorf("unexpected output:\n%s", got)
		}
		if !strings.Contains(got, "1 recipes") {
			t.Errorf("expected count, got:\n%s", got)
		}
	})

	t.Run("Show", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want []string
		}{
			{"markdown", []string{"show", "--render=false", "1"}, []string{"# Pancakes", "whisk the batter", "egg"}},
			{"text", []string{"show", "--format", "txt", "1"}, []string{"Recipe: Pancakes", "Author: A", "1. whisk the batter"}},
			{"json", []string{"cache", "show", "--format", "json", "1"}, []string{`"title": "Pancakes"`}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				out.Reset()
				if err := runCLI(runner, tt.args...); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				for _, want := range tt.want {
					if !strings.Contains(out.String(), want) {
						t.Errorf("expected %q in output:\n%s", want, out.String())
					}
				}
			})
		}
	})

	t.Run("Show Unknown Recipe", func(t *testing.T) {
		if err := runCLI(runner, "show", "--render=false", "404"); !errors.Is(err, shared.ErrRecipeNotFound) {
			t.Errorf("expected ErrRecipeNotFound, got %v", err)
		}
	})

	t.Run("Show Requires Id", func(t *testing.T) {
		if err := runCLI(runner, "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Runs", func(t *testing.T) {
		out.Reset()
		if err := runCLI(runner, "cache", "runs", "--status", "completed"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "2/2 hydrated, 0 failed") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("Clear", func(t *testing.T) {
		out.Reset()
		if err := runCLI(runner, "cache", "clear"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "Removed 2 cached recipes") {
			t.Errorf("unexpected output: %q", out.String())
		}

		out.Reset()
		if err := runCLI(runner, "cache", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "No cached recipes") {
			t.Errorf("expected empty cache, got %q", out.String())
		}
	})
}

func TestCacheWithoutDatabase(t *testing.T) {
	runner, _ := testRunner(t, seededAPI(), false)

	for _, args := range [][]string{{"cache", "list"}, {"cache", "runs"}, {"cache", "clear"}, {"show", "1"}} {
		if err := runCLI(runner, args...); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("%v: expected ErrMissingConfig, got %v", args, err)
		}
	}
}

func TestExportCommand(t *testing.T) {
	api := seededAPI()
	runner, out := testRunner(t, api, false)
	dir := filepath.Join(t.TempDir(), "export")

	if err := runCLI(runner, "export", "--format", "txt", "--output", dir); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read export dir: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected two recipes and a manifest, got %d entries", len(entries))
	}
	if !strings.Contains(out.String(), "Exported: 2/2") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	t.Run("Search Query", func(t *testing.T) {
		out.Reset()
		dir := filepath.Join(t.TempDir(), "search")
		if err := runCLI(runner, "export", "--query", "soup", "--output", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if api.CallCount("search:soup:u1") != 1 {
			t.Errorf("expected search fetch, got %v", api.Calls())
		}
		if !strings.Contains(out.String(), "Exported: 1/1") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("Config", func(t *testing.T) {
		runner, out := testRunner(t, seededAPI(), false)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := runCLI(runner, "setup", "config", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(out.String(), "Config written to") {
			t.Errorf("unexpected output:\n%s", out.String())
		}

		if err := runCLI(runner, "setup", "config", "--config", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("Database", func(t *testing.T) {
		t.Chdir(t.TempDir())
		runner, out := testRunner(t, seededAPI(), false)

		if err := runCLI(runner, "setup", "database", "--config", "config.toml"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, "config.toml")
		tu.AssertFileExists(t, "recipebox.db")
		if !strings.Contains(out.String(), "2 migrations applied") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})
}

func TestAuthStatus(t *testing.T) {
	backend := func(status int) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/recipe/top/u1" {
				http.NotFound(w, r)
				return
			}
			w.WriteHeader(status)
			w.Write([]byte("[]"))
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	t.Run("Healthy", func(t *testing.T) {
		srv := backend(http.StatusOK)
		runner, out := testRunner(t, seededAPI(), false)
		runner.api = services.NewAPIService(srv.URL, nil)

		if err := runCLI(runner, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "User:    u1") || !strings.Contains(got, "Backend: ✓") {
			t.Errorf("unexpected output:\n%s", got)
		}
	})

	t.Run("Backend Down", func(t *testing.T) {
		srv := backend(http.StatusInternalServerError)
		runner, _ := testRunner(t, seededAPI(), false)
		runner.api = services.NewAPIService(srv.URL, nil)

		if err := runCLI(runner, "auth", "status"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("No User", func(t *testing.T) {
		runner, _ := testRunner(t, seededAPI(), false)
		runner.auth = tu.FakeAuth("")

		if err := runCLI(runner, "auth", "status"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestAPIGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/9":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":9,"username":"a"}]`))
		case "/plain":
			w.Write([]byte("pong"))
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"json", "user/9", `"username": "a"`, nil},
		{"plain text", "/plain", "pong\n", nil},
		{"error status", "/missing", "", shared.ErrServer},
		{"missing path", "", "", shared.ErrMissingArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, out := testRunner(t, seededAPI(), false)
			runner.api = services.NewAPIService(srv.URL, nil)

			args := []string{"api", "get"}
			if tt.path != "" {
				args = append(args, tt.path)
			}
			err := runCLI(runner, args...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("expected %q in output, got %q", tt.want, out.String())
			}
		})
	}
}

func TestServeRouter(t *testing.T) {
	api := seededAPI()
	runner, _ := testRunner(t, api, false)

	router, err := runner.newRouter(0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/recipes/saved")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Title   string          `json:"title"`
		Recipes []models.Recipe `json:"recipes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Title != "Saved Recipes" || len(body.Recipes) != 1 {
		t.Errorf("unexpected body %+v", body)
	}

	t.Run("Without Service", func(t *testing.T) {
		if _, err := NewRunner(RunnerOpts{}).newRouter(0); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}
