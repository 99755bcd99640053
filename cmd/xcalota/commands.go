package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xcalota/panel/internal/core/domain"
	"github.com/xcalota/panel/internal/shell/panel"
)

const appName = "xcalota"

// app carries what every command shares once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg    *Config
	logger *slog.Logger
}

// load reads configuration and builds the logger. Commands that talk to the
// API or serve HTTP run it as their PreRunE.
func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = newLogger(cfg.Log, cmd.ErrOrStderr())
	return nil
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Xcalota restaurant panel",
		Long: `Xcalota manages the restaurants of the Xcalota platform.

It provides:
- The restaurant panel web UI (serve)
- Listing and creating restaurants from the terminal (list, create)
- Slug normalization (slug)
- A local stand-in for the restaurant API (stub)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML, JSON or TOML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(a),
		listCmd(a),
		createCmd(a),
		slugCmd(),
		stubCmd(a),
		versionCmd(),
	)

	return cmd
}

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the restaurant panel web UI",
		Args:    cobra.NoArgs,
		PreRunE: a.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Info("starting xcalota panel", "version", Version, "config", a.configPath)
			server, err := NewPanelServer(a.cfg, a.logger)
			if err != nil {
				return err
			}
			return server.Start(cmd.Context())
		},
	}
}

func stubCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "stub",
		Short:   "Run a local restaurant API for development and testing",
		Args:    cobra.NoArgs,
		PreRunE: a.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := NewStubServer(a.cfg, a.logger)
			if err != nil {
				return err
			}
			return server.Start(cmd.Context())
		},
	}
}

func listCmd(a *app) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List restaurants",
		Args:    cobra.NoArgs,
		PreRunE: a.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.newPanel()
			if err := p.Refresh(cmd.Context()); err != nil {
				return &ServerError{Op: "List", Err: errors.New(p.View("").ListError), ExitCode: ExitAPIError}
			}

			v := p.View(query)
			out := cmd.OutOrStdout()
			if len(v.Cards) == 0 {
				fmt.Fprintln(out, "Nenhum restaurante encontrado.")
			} else {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "NOME\tSLUG\tURL")
				for _, c := range v.Cards {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.SlugLabel, c.PublicPath)
				}
				tw.Flush()
			}
			fmt.Fprintf(out, "Total: %d · Exibindo: %d\n", v.Stats.Total, v.Stats.Showing)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name or slug (case-insensitive)")
	return cmd
}

func createCmd(a *app) *cobra.Command {
	var name, slug string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a restaurant",
		Args:    cobra.NoArgs,
		PreRunE: a.load,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.newPanel()
			created, err := p.Submit(cmd.Context(), name, slug)
			if err != nil {
				msg := err.Error()
				if n, ok := p.Notice(); ok {
					msg = n.Message
				}
				code := ExitAPIError
				if errors.Is(err, domain.ErrNameRequired) || errors.Is(err, domain.ErrSlugRequired) {
					code = ExitConfigError
				}
				return &ServerError{Op: "Create", Err: errors.New(msg), ExitCode: code}
			}

			out := cmd.OutOrStdout()
			if n, ok := p.Notice(); ok {
				fmt.Fprintln(out, n.Message)
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", created.DisplayName(), created.SlugLabel(), created.PublicPath())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Restaurant name")
	cmd.Flags().StringVarP(&slug, "slug", "s", "", "Slug (derived from the name when empty)")
	return cmd
}

func slugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slug TEXT...",
		Short: "Print the slug for a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), domain.Slugify(strings.Join(args, " ")))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", appName, Version, BuildTime)
		},
	}
}

func (a *app) newPanel() *panel.Panel {
	return panel.New(panel.Config{
		Client:    newAPIClient(a.cfg, a.logger),
		NoticeTTL: a.cfg.UI.NoticeTTL,
		Logger:    a.logger,
	})
}
