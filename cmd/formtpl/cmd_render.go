package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formtemplate/pkg/builder"
	"github.com/goliatone/go-formtemplate/pkg/export"
	"github.com/goliatone/go-formtemplate/pkg/orchestrator"
	"github.com/goliatone/go-formtemplate/pkg/render"
	"github.com/goliatone/go-formtemplate/pkg/template"
)

func newMaterializeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "materialize <template-id>",
		Short: "Print the builder questions a template produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			questions, err := orch.Questions(cmd.Context(), orchestrator.Request{TemplateID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(a.out, questions)
		},
	}
}

func newPreviewCmd(a *app) *cobra.Command {
	var (
		format        string
		assignments   []string
		includeHidden bool
	)
	cmd := &cobra.Command{
		Use:   "preview <template-id>",
		Short: "Render a template preview as html, text or an interactive tui",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			tpl, err := orch.Resolve(cmd.Context(), orchestrator.Request{TemplateID: args[0]})
			if err != nil {
				return err
			}
			raw, err := render.ParseAssignments(assignments)
			if err != nil {
				return err
			}
			responses := render.Responses(tpl, raw)
			a.logger.Debug("preview responses", zap.Strings("fields", render.SortedResponseKeys(responses)))

			out, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Template: &tpl,
				Renderer: strings.ToLower(format),
				RenderOptions: render.RenderOptions{
					Responses:     responses,
					IncludeHidden: includeHidden,
				},
			})
			if err != nil {
				return err
			}
			_, err = a.out.Write(out.Body)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "renderer: html, text or tui")
	cmd.Flags().StringArrayVar(&assignments, "response", nil, "prefilled response as field=value (repeatable)")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "include fields whose condition is not met")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "export [template-id]",
		Short: "Print the OpenAPI response schema of a template, or a document for all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			if all || len(args) == 0 {
				return printJSON(a.out, export.Document(orch.Catalog().ListTemplates()))
			}
			tpl, err := orch.Resolve(cmd.Context(), orchestrator.Request{TemplateID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(a.out, export.ResponseSchema(tpl))
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "export every built-in template as one OpenAPI document")
	return cmd
}

func newShareCmd(a *app) *cobra.Command {
	var (
		cfg    = builder.DefaultSharingConfig()
		author template.Author
		title  string
	)
	cmd := &cobra.Command{
		Use:   "share <template-id>",
		Short: "Start a form from a template and print its community submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			tpl, err := orch.Resolve(cmd.Context(), orchestrator.Request{TemplateID: args[0]})
			if err != nil {
				return err
			}

			session := builder.New()
			if !session.ApplyTemplate(tpl) {
				return fmt.Errorf("template %q produced no questions", tpl.ID)
			}
			if title == "" {
				title = tpl.Name
			}
			session.SetTitle(title)
			session.SetDescription(tpl.Description)

			submission, err := session.Share(cfg, author)
			if err != nil {
				return err
			}
			return printJSON(a.out, submission)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "form title (default: the template name)")
	flags.StringVar(&author.Name, "author", "", "author name")
	flags.StringVar(&author.Title, "author-title", "", "author title")
	flags.StringVar(&author.Hospital, "hospital", "", "author hospital")
	flags.StringVar(&cfg.Category, "category", cfg.Category, "community category")
	flags.StringVar(&cfg.PublicDescription, "public-description", "", "description shown in the marketplace")
	flags.StringSliceVar(&cfg.Tags, "tag", nil, "marketplace tag (repeatable)")
	flags.BoolVar(&cfg.RequireApproval, "require-approval", false, "submit for review instead of publishing")
	flags.BoolVar(&cfg.ShowHospitalAffiliation, "show-hospital", cfg.ShowHospitalAffiliation, "show the author's hospital")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}
