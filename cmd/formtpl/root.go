package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-formtemplate/internal/config"
	"github.com/goliatone/go-formtemplate/internal/logging"
	"github.com/goliatone/go-formtemplate/pkg/catalog"
	"github.com/goliatone/go-formtemplate/pkg/orchestrator"
	"github.com/goliatone/go-formtemplate/pkg/render"
	"github.com/goliatone/go-formtemplate/pkg/renderers/html"
	"github.com/goliatone/go-formtemplate/pkg/renderers/text"
	"github.com/goliatone/go-formtemplate/pkg/renderers/tui"
)

// app carries the state shared by every subcommand once the persistent
// pre-run has loaded configuration.
type app struct {
	out        io.Writer
	v          *viper.Viper
	configFile string
	envFile    string

	cfg    *config.Config
	logger *zap.Logger
	orch   *orchestrator.Orchestrator
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, v: viper.New()}

	root := &cobra.Command{
		Use:           "formtpl",
		Short:         "Browse, preview and export clinical form templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: formtpl.yaml in . or ./configs)")
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file loaded before the environment (default: .env)")
	flags.String("catalog-dir", "", "load templates from this directory instead of the embedded catalog")
	flags.String("dsn", "", "patient database DSN")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")

	bindings := map[string]string{
		"catalog.dir":  "catalog-dir",
		"database.dsn": "dsn",
		"log.level":    "log-level",
		"log.format":   "log-format",
	}
	for key, name := range bindings {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		newListCmd(a),
		newCommunityCmd(a),
		newSearchCmd(a),
		newValidateCmd(a),
		newMaterializeCmd(a),
		newPreviewCmd(a),
		newExportCmd(a),
		newShareCmd(a),
		newServeCmd(a),
		newPatientsCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(config.Options{File: a.configFile, EnvFile: a.envFile, Viper: a.v})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.logger = logger
	return nil
}

// catalog loads the configured catalog.
func (a *app) catalog() (*catalog.Catalog, error) {
	if a.cfg.Catalog.Dir == "" {
		return catalog.Default()
	}
	return catalog.LoadDir(a.cfg.Catalog.Dir, catalog.WithLogger(a.logger))
}

// orchestrator builds the render pipeline with every renderer registered.
func (a *app) orchestrator() (*orchestrator.Orchestrator, error) {
	if a.orch != nil {
		return a.orch, nil
	}
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	registry.MustRegister(htmlRenderer)
	registry.MustRegister(text.New())
	registry.MustRegister(tui.New(tui.WithOutputFormat(tui.OutputFormatPrettyText)))

	a.orch = orchestrator.New(
		orchestrator.WithCatalog(cat),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger),
	)
	return a.orch, nil
}
