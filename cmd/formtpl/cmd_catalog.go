package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formtemplate/pkg/catalog"
	"github.com/goliatone/go-formtemplate/pkg/query"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(a.out, cat.ListTemplates())
			}
			return printTemplates(a.out, cat.ListTemplates())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print templates as JSON")
	return cmd
}

func newCommunityCmd(a *app) *cobra.Command {
	var (
		sortKey string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "community",
		Short: "List community templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := query.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			items, err := query.Sort(cat.ListCommunityTemplates(), key)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(a.out, items)
			}
			return printCommunity(a.out, items)
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", string(query.SortPopular), "sort order: popular, newest or rating")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print templates as JSON")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		filter    query.Filter
		community bool
		sortKey   string
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search templates by text, category and specialty",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				filter.Query = args[0]
			}
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			if !community {
				return printTemplates(a.out, query.Search(cat.ListTemplates(), filter))
			}
			key, err := query.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			items, err := query.Browse(cat.ListCommunityTemplates(), filter, key)
			if err != nil {
				return err
			}
			return printCommunity(a.out, items)
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", query.All, "category facet")
	cmd.Flags().StringVar(&filter.Specialty, "specialty", query.All, "specialty facet")
	cmd.Flags().BoolVar(&community, "community", false, "search community templates instead")
	cmd.Flags().StringVar(&sortKey, "sort", "", "community sort order")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a catalog directory, or the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.Catalog.Dir
			}
			var (
				cat *catalog.Catalog
				err error
			)
			if dir == "" {
				cat, err = catalog.Default()
			} else {
				cat, err = catalog.LoadDir(dir, catalog.WithLogger(a.logger))
			}
			if err != nil {
				var invalid *template.ValidationError
				if errors.As(err, &invalid) {
					for _, issue := range invalid.Issues {
						fmt.Fprintln(a.out, issue.String())
					}
				}
				return err
			}
			templates, community := cat.Len()
			fmt.Fprintf(a.out, "ok: %d templates, %d community templates\n", templates, community)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "catalog directory to validate")
	return cmd
}
