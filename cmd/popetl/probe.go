package main

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"popetl/internal/probe"
	"popetl/internal/schema"
)

func newProbeCmd(g *globalOptions) *cobra.Command {
	var (
		url      string
		maxBytes int
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Sample the source and show how its header maps onto the populations table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if changed(cmd.Flags(), "url") {
				cfg.Source.URL = url
			}
			delim, _ := utf8.DecodeRuneInString(cfg.Source.Delimiter)
			if delim == utf8.RuneError {
				delim = 0
			}

			res, err := probe.Sample(cmd.Context(), probe.Options{
				URL:                cfg.Source.URL,
				MaxBytes:           maxBytes,
				Delimiter:          delim,
				InsecureSkipVerify: cfg.Source.InsecureSkipVerify,
				Table:              schema.Populations(cfg.Tables.Populations),
			})
			if err != nil {
				return err
			}
			printProbe(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "source to sample (defaults to the configured source)")
	cmd.Flags().IntVar(&maxBytes, "bytes", probe.DefaultMaxBytes, "number of bytes to sample")
	return cmd
}

func printProbe(w io.Writer, res *probe.Result) {
	mode := "by name"
	if !res.ByName {
		mode = "positional"
	}
	fmt.Fprintf(w, "sampled rows: %d, mapping: %s\n", res.Rows, mode)

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetHeader([]string{"#", "Header", "Column", "Inferred", "Declared"})
	for i, c := range res.Columns {
		declared := ""
		if c.Target != "" {
			declared = c.Declared.String()
		}
		inferred := c.Inferred.String()
		if c.Empty {
			inferred = "(empty)"
		}
		table.Append([]string{strconv.Itoa(i + 1), c.Header, c.Target, inferred, declared})
	}
	table.Render()

	for _, c := range res.Mismatches() {
		fmt.Fprintf(w, "warning: %s looks like %s but %s is %s\n", c.Header, c.Inferred, c.Target, c.Declared)
	}
	if !res.ByName && len(res.Missing) > 0 {
		fmt.Fprintf(w, "header does not name: %v\n", res.Missing)
	}
}
