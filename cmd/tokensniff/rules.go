package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"tokensniff/internal/rules"
	"tokensniff/internal/token"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List built-in rules and standards",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("standard", "All", "list the rules of this standard")
	rulesCmd.Flags().Bool("standards", false, "list standard names instead of rules")
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleRow struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Grammars    []string `json:"grammars"`
	Severity    string   `json:"severity,omitempty"`
	Description string   `json:"description,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "pretty" && format != "json" {
		return usageError(fmt.Errorf("unsupported format %q (must be pretty or json)", format))
	}
	out := cmd.OutOrStdout()

	if onlyStandards, _ := cmd.Flags().GetBool("standards"); onlyStandards {
		names := rules.Standards()
		if format == "json" {
			return writeJSON(out, names)
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	}

	standard, _ := cmd.Flags().GetString("standard")
	reg, err := rules.Build(rules.Selection{Standard: standard}, nil)
	if err != nil {
		return usageError(err)
	}
	rows := make([]ruleRow, 0, reg.Len())
	for _, info := range reg.Rules() {
		row := ruleRow{ID: info.ID, Kind: info.KindName, Description: info.Description}
		for _, g := range info.Grammars {
			row.Grammars = append(row.Grammars, g.String())
		}
		if info.Severity != 0 {
			row.Severity = info.Severity.Label()
		}
		rows = append(rows, row)
	}
	if format == "json" {
		return writeJSON(out, rows)
	}
	return renderRulesPretty(out, rows)
}

func renderRulesPretty(out io.Writer, rows []ruleRow) error {
	idWidth := 0
	for _, r := range rows {
		idWidth = max(idWidth, runewidth.StringWidth(r.ID))
	}
	all := len(token.Grammars)
	var b strings.Builder
	for _, r := range rows {
		grammars := strings.Join(r.Grammars, ",")
		if len(r.Grammars) == all {
			grammars = "any"
		}
		fmt.Fprintf(&b, "%s  %-8s %-11s %s\n", runewidth.FillRight(r.ID, idWidth), r.Kind, grammars, r.Description)
	}
	fmt.Fprintf(&b, "%d rules\n", len(rows))
	_, err := io.WriteString(out, b.String())
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
