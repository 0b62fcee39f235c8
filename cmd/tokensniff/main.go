package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tokensniff/internal/driver"
	"tokensniff/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "tokensniff",
	Short:         "Token-level coding standard checker for PHP, JavaScript and CSS",
	Long:          `tokensniff tokenizes sources, resolves brackets and scopes, and runs sniffs that report coding-standard violations`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// exitError carries a process exit code through cobra. A nil err means
// the command already printed what it had to say.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: driver.ExitUsage, err: err}
}

func init() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to tokensniff.toml (default: search upwards)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (error|info|debug)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console|json)")
}

// main executes the root command and maps its error to an exit code.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return driver.ExitClean
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(os.Stderr, "error:", ee.err)
		}
		return ee.code
	}
	// ошибки разбора флагов и аргументов cobra
	fmt.Fprintln(os.Stderr, "error:", err)
	return driver.ExitUsage
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the terminal and NO_COLOR.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	v, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f) && !color.NoColor, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", v)
	}
}
