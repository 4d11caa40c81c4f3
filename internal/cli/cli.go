// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/specialistvlad/assetgrid/internal/app"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/hcl_adapter"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/reload"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// reloadTimeout bounds the whole `reload` command.
const reloadTimeout = 20 * time.Second

type flags struct {
	configPath string
	logLevel   string
	logFormat  string
	workers    int
	host       string
	port       int
}

// NewRootCommand builds the command tree writing to outW.
func NewRootCommand(outW io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "assetgrid",
		Short: "Front-end asset pipeline with a live-reloading dev server.",
		Long: `assetgrid renders templates, compiles stylesheets and scripts, optimizes
images and builds favicons and an SVG sprite from a source tree.

Without a subcommand it builds once, serves the output and rebuilds on
every change.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(f, outW)
			if err != nil {
				return err
			}
			if err := a.Watch(cmd.Context()); err != nil {
				return classify(err)
			}
			return nil
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", app.DefaultConfigPath, "Path to the HCL configuration file (optional).")
	pf.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.IntVar(&f.workers, "workers", 0, "Number of concurrent build workers (default 4).")
	pf.StringVar(&f.host, "host", "", "Dev server host, overrides the server block.")
	pf.IntVar(&f.port, "port", 0, "Dev server port, overrides the server block.")

	root.AddCommand(newBuildCommand(f, outW), newReloadCommand(f, outW))
	return root
}

func newBuildCommand(f *flags, outW io.Writer) *cobra.Command {
	var minify, prod bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run a one-shot build.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(f, outW)
			if err != nil {
				return err
			}
			if _, err := a.Build(cmd.Context(), pipeline.ParseVariant(minify, prod)); err != nil {
				return classify(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&minify, "min", false, "Minify stylesheets and scripts and copy fonts.")
	cmd.Flags().BoolVar(&prod, "prod", false, "Like --min, and inline critical CSS into pages.")
	return cmd
}

func newReloadCommand(f *flags, outW io.Writer) *cobra.Command {
	var rawURL string
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Ask a running dev server to reload connected browsers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rawURL == "" {
				host, port := f.host, f.port
				if host == "" {
					host = config.Default().Server.Host
				}
				if port == 0 {
					port = config.Default().Server.Port
				}
				rawURL = "http://" + net.JoinHostPort(host, strconv.Itoa(port))
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), reloadTimeout)
			defer cancel()

			client, err := reload.Dial(ctx, rawURL)
			if err != nil {
				return &ExitError{Code: ExitFailure, Message: err.Error()}
			}
			defer client.Close()

			if err := client.Request(ctx); err != nil {
				return &ExitError{Code: ExitFailure, Message: err.Error()}
			}
			fmt.Fprintln(outW, "Reload sent to", rawURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&rawURL, "url", "", "Dev server URL (default http://<host>:<port>).")
	return cmd
}

// newApp validates the flags and constructs the application.
func newApp(f *flags, outW io.Writer) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		ConfigPath:  f.configPath,
		LogFormat:   f.logFormat,
		LogLevel:    f.logLevel,
		WorkerCount: f.workers,
		Host:        f.host,
		Port:        f.port,
	})
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	a, err := app.NewApp(outW, cfg, hcl_adapter.NewLoader())
	if err != nil {
		return nil, classify(err)
	}
	return a, nil
}

// classify maps an application error to its exit code: configuration
// problems are usage errors, everything else is a failure.
func classify(err error) error {
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

// Execute runs the command tree with args. Errors that are not already an
// *ExitError come from argument parsing and are reported as usage errors.
func Execute(ctx context.Context, outW io.Writer, args []string) error {
	root := NewRootCommand(outW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}
