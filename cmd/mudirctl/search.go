package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Basharkhan7776/mudir/internal/search"
)

// hit is one flattened search result.
type hit struct {
	Type  search.ResultType `json:"type" yaml:"type"`
	Score float64           `json:"score" yaml:"score"`
	ID    string            `json:"id" yaml:"id"`
	Label string            `json:"label" yaml:"label"`
}

func flatten(res search.Results) []hit {
	hits := make([]hit, 0, res.Total())
	for _, r := range res.Collections {
		hits = append(hits, hit{Type: r.Type, Score: r.Score, ID: r.Item.ID, Label: r.Item.Name})
	}
	for _, r := range res.Items {
		hits = append(hits, hit{Type: r.Type, Score: r.Score, ID: r.Item.ID, Label: r.Item.CollectionName})
	}
	for _, r := range res.Organizations {
		hits = append(hits, hit{Type: r.Type, Score: r.Score, ID: r.Item.ID, Label: r.Item.Name})
	}
	for _, r := range res.Ledgers {
		hits = append(hits, hit{Type: r.Type, Score: r.Score, ID: r.Item.OrganizationID, Label: r.Item.OrganizationName})
	}
	return hits
}

func newSearchCmd(e *env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Fuzzy search collections, items and organizations",
		Long:  `Rank collections, items, organizations and ledgers against the query. Queries shorter than two characters return nothing.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			switch output {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown output %q, want table, json or yaml", output)
			}
			ctx := cmd.Context()
			store, done, err := e.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, done()) }()

			query := strings.Join(args, " ")
			var hits []hit
			if !search.TooShort(query) {
				hits = flatten(search.SearchAll(store.Snapshot(), query))
			}
			return writeHits(cmd.OutOrStdout(), output, hits)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func writeHits(w io.Writer, format string, hits []hit) error {
	if hits == nil {
		hits = []hit{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(hits); err != nil {
			return err
		}
		return enc.Close()
	}
	if len(hits) == 0 {
		_, err := fmt.Fprintln(w, "no results")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tSCORE\tID\tLABEL")
	for _, h := range hits {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.Type, strconv.FormatFloat(h.Score, 'f', -1, 64), h.ID, h.Label)
	}
	return tw.Flush()
}
