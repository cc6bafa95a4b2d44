// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag(value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (json, markdown, txt, csv)",
		Value:   value,
	}
}

func workersFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "workers",
		Aliases: []string{"w"},
		Usage:   "Recipes hydrated at once (0 uses loader.workers)",
	}
}

// listCommand loads one of the fixed recipe lists.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Load a recipe list (top, personal or saved) and print it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "List to load: top, personal or saved (default: loader.default_mode)",
			},
			formatFlag("txt"),
			workersFlag(),
		},
		Action: r.List,
	}
}

// searchCommand runs a free-text recipe search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search recipes by free text",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "text"},
		},
		Flags: []cli.Flag{
			formatFlag("txt"),
			workersFlag(),
		},
		Action: r.Search,
	}
}

// showCommand prints one cached recipe.
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show a cached recipe by its backend id",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			formatFlag("markdown"),
			&cli.BoolFlag{
				Name:  "render",
				Usage: "Render markdown for the terminal",
				Value: true,
			},
		},
		Action: r.Show,
	}
}

// exportCommand loads a list and writes every recipe to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Load a list or search and write each recipe to its own file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "List to export: top, personal or saved",
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Export search results instead of a list",
			},
			formatFlag("json"),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: recipes_export_{epoch})",
			},
			&cli.IntFlag{
				Name:  "writers",
				Usage: "Concurrent file writers",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "images",
				Usage: "Download recipe images (markdown only)",
			},
			workersFlag(),
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive recipe browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Initial list: top, personal or saved",
			},
			&cli.StringFlag{
				Name:  "style",
				Usage: "Markdown style for the detail view (dark, light, notty); empty detects the terminal",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the TUI owns the terminal",
				Value: "./tmp/recipebox-tui.log",
			},
			workersFlag(),
		},
		Action: r.TUI,
	}
}

// serveCommand starts the JSON endpoint.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve recipe lists as JSON over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port)",
			},
			workersFlag(),
		},
		Action: r.Serve,
	}
}

// cacheCommand inspects the local recipe cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local recipe cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached recipes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Only recipes cached from this list (top, personal, saved, search)",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Only recipes whose title contains this text",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:  "show",
				Usage: "Show a cached recipe by its backend id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					formatFlag("markdown"),
					&cli.BoolFlag{
						Name:  "render",
						Usage: "Render markdown for the terminal",
						Value: true,
					},
				},
				Action: r.Show,
			},
			{
				Name:  "runs",
				Usage: "Show recent load runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only runs with this status (completed, cancelled, failed)",
					},
				},
				Action: r.CacheRuns,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached recipe",
				Action: r.CacheClear,
			},
		},
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand reports on the configured identity.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Check the configured user against the backend",
				Action: r.AuthStatus,
			},
		},
	}
}

// apiCommand handles direct backend calls.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the recipe backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints the raw response",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON responses",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}
