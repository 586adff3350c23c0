// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"piishield/internal/formatters"
	_ "piishield/internal/formatters/csv"
	_ "piishield/internal/formatters/json"
	_ "piishield/internal/formatters/junit"
	_ "piishield/internal/formatters/text"
	_ "piishield/internal/formatters/yaml"
	"piishield/internal/version"
)

// Exit codes
const (
	exitOK      = 0
	exitFailed  = 1 // a document failed or kept residual PII
	exitNoFiles = 2 // nothing to process
	exitUsage   = 3 // bad flags, arguments, configuration or an internal error
)

// exitError carries the process exit code out of a command
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

// globalOptions are the flags shared by every subcommand
type globalOptions struct {
	configFile  string
	format      string
	outputFile  string
	noColor     bool
	verbose     bool
	debug       bool
	quiet       bool
	logLevel    string
	metricsFile string
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code
func execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitUsage
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "piishield",
		Short: "Detect and redact personal data in PDF, image, DOCX, XLSX and text files",
		Long: `piishield finds Indian and international PII (Aadhaar, PAN, payment cards,
mobile numbers, e-mail addresses, dates of birth, names and more) and writes
sanitized copies of the input documents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Path to the configuration file")
	pf.StringVarP(&opts.format, "format", "f", "text", "Report format: "+joinFormats())
	pf.StringVarP(&opts.outputFile, "output", "o", "", "Write the report to this file instead of stdout")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "List every span in the report")
	pf.BoolVar(&opts.debug, "debug", false, "Trace every pipeline stage on stderr")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Only log errors")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	root.AddCommand(
		newRedactCommand(opts, stdout, stderr),
		newScanCommand(opts, stdout, stderr),
		newCategoriesCommand(opts, stdout),
		newFormatsCommand(stdout),
		newVersionCommand(stdout),
	)
	return root
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(stdout, version.Short())
				return
			}
			fmt.Fprintln(stdout, version.Info())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print the version number only")
	return cmd
}

func newFormatsCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the report formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, info := range formatters.GetSupportedFormats() {
				fmt.Fprintf(stdout, "%-6s %-6s %-20s %s\n", info.Name, info.Extension, info.MimeType, info.Description)
			}
		},
	}
}

func joinFormats() string {
	return strings.Join(formatters.List(), ", ")
}

// colorEnabled reports whether w is a terminal and colors were not disabled
func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
