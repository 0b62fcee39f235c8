package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tokensniff/internal/diag"
	"tokensniff/internal/diagfmt"
	"tokensniff/internal/driver"
	"tokensniff/internal/lexer"
	"tokensniff/internal/resolve"
	"tokensniff/internal/source"
	"tokensniff/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file|-",
	Short: "Print the resolved token stream of a file",
	Long:  `Tokenize prints every token of a file together with its bracket, scope and level annotations`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().String("grammar", "", "grammar of the file (php|js|css), default by extension")
	tokenizeCmd.Flags().Int("tab-width", 0, "tab width for columns (default from config)")
	tokenizeCmd.Flags().Bool("fragment", false, "start PHP input in code mode")
	tokenizeCmd.Flags().Bool("raw", false, "skip structural resolution")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return usageError(err)
	}

	// Получаем флаги
	format, _ := cmd.Flags().GetString("format")
	if format != "pretty" && format != "json" {
		return usageError(fmt.Errorf("unknown format: %s", format))
	}
	tabWidth := cfg.Run.TabWidth
	if cmd.Flags().Changed("tab-width") {
		tabWidth, _ = cmd.Flags().GetInt("tab-width")
	}
	fragment, _ := cmd.Flags().GetBool("fragment")
	raw, _ := cmd.Flags().GetBool("raw")

	path := args[0]
	var file *source.File
	if path == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return usageError(fmt.Errorf("failed to read standard input: %w", err))
		}
		content, flags := source.Normalize(content)
		file = source.NewFile("stdin", content, flags|source.FileVirtual)
	} else if file, err = source.ReadFile(path); err != nil {
		return usageError(err)
	}

	var g token.Grammar
	if v, _ := cmd.Flags().GetString("grammar"); v != "" {
		if g, err = token.ParseGrammar(v); err != nil {
			return usageError(err)
		}
	} else if g, _ = cfg.Grammar(file.Path); g == 0 {
		return usageError(fmt.Errorf("%s: cannot determine grammar, use --grammar", file.Path))
	}

	stream, err := lexer.Tokenize(file, g, lexer.Options{TabWidth: tabWidth, Fragment: fragment})
	if err == nil && !raw {
		err = resolve.Resolve(stream)
	}
	if err != nil {
		return reportStreamError(cmd, file, err)
	}

	// Выводим токены в выбранном формате
	if format == "json" {
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), stream)
	}
	return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), stream)
}

// reportStreamError prints a tokenizer or resolver failure like a check
// diagnostic and exits with the fatal code.
func reportStreamError(cmd *cobra.Command, file *source.File, err error) error {
	var d diag.Diagnostic
	var lerr *lexer.Error
	var rerr *resolve.Error
	switch {
	case errors.As(err, &lerr):
		d = lerr.Diagnostic()
	case errors.As(err, &rerr):
		d = rerr.Diagnostic()
	default:
		return &exitError{code: driver.ExitFatal, err: err}
	}
	files := source.NewFileSet()
	files.Add(file)
	colored, _ := useColor(cmd, os.Stderr)
	res := []driver.FileResult{{Path: file.Path, Status: driver.StatusFatal, Diagnostics: []diag.Diagnostic{d}}}
	if perr := diagfmt.Text(cmd.ErrOrStderr(), res, diagfmt.TextOpts{Color: colored, Files: files}); perr != nil {
		return &exitError{code: driver.ExitFatal, err: perr}
	}
	return &exitError{code: driver.ExitFatal}
}
