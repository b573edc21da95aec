package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formtemplate/internal/httpapi"
	"github.com/goliatone/go-formtemplate/pkg/patients"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the template gallery and patient search over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			db, store, err := a.patientStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}
			server := httpapi.New(orch,
				httpapi.WithLogger(a.logger),
				httpapi.WithPatients(store),
				httpapi.WithRecentCutoff(a.cfg.Patients.RecentCutoff),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Listen(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: http.addr)")
	return cmd
}

func newPatientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Work with the patient table",
	}

	var q patients.Query
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search patients by text and filter chips",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q.Text = args[0]
			}
			if q.Cutoff == "" {
				q.Cutoff = a.cfg.Patients.RecentCutoff
			}
			db, store, err := a.patientStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			found, err := store.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(a.out, found)
		},
	}
	search.Flags().StringSliceVar(&q.Chips, "filter", nil, "filter chip, e.g. active, cardiology, recent (repeatable)")
	search.Flags().StringVar(&q.Cutoff, "cutoff", "", "date splitting recent and overdue visits (default: patients.recent_cutoff)")

	cmd.AddCommand(search)
	return cmd
}

// patientStore opens and migrates the configured database, seeding demo
// patients when enabled.
func (a *app) patientStore(ctx context.Context) (*sql.DB, *patients.Store, error) {
	db, err := patients.Open(a.cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := patients.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	store := patients.NewStore(db, patients.WithLogger(a.logger))
	if a.cfg.Patients.Seed {
		if _, err := patients.Seed(ctx, store); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return db, store, nil
}
