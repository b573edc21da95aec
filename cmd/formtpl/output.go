package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func printTemplates(w io.Writer, items []template.FormTemplate) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tSPECIALTY\tNAME")
	for _, tpl := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tpl.ID, tpl.Category, tpl.Specialty, tpl.Name)
	}
	return tw.Flush()
}

func printCommunity(w io.Writer, items []template.CommunityTemplate) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRATING\tDOWNLOADS\tPUBLISHED\tAUTHOR\tNAME")
	for _, tpl := range items {
		fmt.Fprintf(tw, "%s\t%.1f\t%d\t%s\t%s\t%s\n",
			tpl.ID, tpl.Stats.Rating, tpl.Stats.Downloads, tpl.Stats.DatePublished, tpl.Author.Name, tpl.Name)
	}
	return tw.Flush()
}
