// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli is the pwdportal command line.

The root command loads the configuration, restores the stored session into a
[session.Holder] and builds the navigator every subcommand goes through.
Missing flags are asked for with interactive forms when stdin is a terminal.
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/pwdregistry/internal/identity"
	"github.com/taibuivan/pwdregistry/internal/portal/client"
	"github.com/taibuivan/pwdregistry/internal/portal/config"
	"github.com/taibuivan/pwdregistry/internal/portal/navigator"
	"github.com/taibuivan/pwdregistry/internal/portal/routes"
	"github.com/taibuivan/pwdregistry/internal/session"
)

// Options customise the root command.
type Options struct {
	Version string

	// Interactive reports whether forms may be shown. Defaults to checking
	// that stdin is a terminal.
	Interactive func() bool

	// Stderr receives logs. Defaults to os.Stderr.
	Stderr io.Writer
}

// app carries what PersistentPreRunE builds for the subcommands.
type app struct {
	cfgFile     string
	verbose     bool
	interactive func() bool
	stderr      io.Writer

	cfg    *config.Config
	logger *slog.Logger
	client *client.Client
	holder *session.Holder
	nav    *navigator.Navigator
}

// NewRootCommand builds the pwdportal command tree.
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{
		interactive: opts.Interactive,
		stderr:      opts.Stderr,
	}
	if a.interactive == nil {
		a.interactive = IsInteractive
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}

	root := &cobra.Command{
		Use:   "pwdportal",
		Short: "Terminal portal for the PWD registry",
		Long: `pwdportal signs you in to the PWD registry and opens portal pages.

Pages are guarded by role: applicants land on the registration form,
administrators on the registration list.

Example usage:
  pwdportal login                  # Sign in (prompts when flags are missing)
  pwdportal whoami                 # Show the signed-in identity
  pwdportal open /pwd/register     # File a PWD registration
  pwdportal open /admin --city Pune
  pwdportal logout`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.pwdportal/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newLoginCommand(a),
		newRegisterCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newOpenCommand(a),
		newEmailCheckCommand(a),
		newConfirmCommand(a),
		newResendCommand(a),
	)
	return root
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.Logging.Level, a.verbose)

	apiClient, err := client.New(cfg.APIURL, cfg.Timeout, client.NewFileStore(cfg.SessionFile), a.logger)
	if err != nil {
		return err
	}
	a.client = apiClient

	a.holder = session.NewHolder(apiClient, a.logger)
	a.holder.Start(ctx)

	table := routes.Default().WithRoles(cfg.Routes.Roles)
	a.nav = navigator.New(a.holder, table, cfg.Policy(), cfg.Routes.Fallback, cfg.Routes.MaxHops, a.logger)

	a.logger.Debug("portal_initialised",
		slog.String("api_url", cfg.APIURL),
		slog.String("session_file", cfg.SessionFile),
	)
	return nil
}

func (a *app) close() {
	if a.holder != nil {
		a.holder.Close()
	}
}

// settled waits for the restored session and any in-flight profile lookup.
func (a *app) settled(ctx context.Context) *identity.Session {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	select {
	case <-a.holder.Ready():
	case <-ctx.Done():
		a.logger.Warn("portal_session_restore_timeout")
		return nil
	}
	if err := a.holder.Settle(ctx); err != nil {
		a.logger.Warn("portal_session_settle_timeout", slog.Any("error", err))
	}
	return a.holder.Current()
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	logLevel := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	}
	if verbose {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})).
		With(slog.String("app", "pwdportal"))
}
