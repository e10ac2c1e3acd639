package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/logging"
	"gtodo/internal/oauth"
	"gtodo/internal/service"
	"gtodo/internal/session"
	"gtodo/internal/taskstore"
	"gtodo/internal/tui"
)

// debugLogFile receives logs while the interactive screens own the terminal.
const debugLogFile = "debug.log"

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command. It runs its own sign-in, so it does not
// need a session up front.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive task list" }
func (c *UICmd) Usage() string     { return "gtodo ui [common flags]" }
func (c *UICmd) NeedsAuth() bool   { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	kv := cfg.OpenStore()

	oc, clientErr := oauth.ClientConfig(cfg)
	signedIn := session.NewGate(kv, nil, cfg.Logger()).State(ctx) == session.Authenticated
	if !signedIn && errors.Is(clientErr, oauth.ErrNoClient) {
		printClientSetup(errOut, cfg)
		return exitcode.AuthError
	}

	logger, closeLog, err := uiLogger(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer closeLog()

	err = tui.Run(ctx, tui.Options{
		Store: kv,
		Provider: func(announce func(string) error) session.Provider {
			if clientErr != nil {
				return session.ProviderFunc(func(context.Context) session.Result {
					return session.Result{Kind: session.Failure, Err: clientErr}
				})
			}
			p := oauth.NewProvider(oc, io.Discard, logger)
			p.Announce = announce
			return p
		},
		Open: func(ctx context.Context) service.Service {
			return taskstore.Open(ctx, kv, taskstore.WithLogger(logger))
		},
		Log: logger,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// uiLogger keeps logs off the terminal: discarded normally, written to
// debug.log in the config dir with --debug.
func uiLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if !cfg.Debug {
		return log.New(io.Discard), func() {}, nil
	}
	if err := cfg.EnsureDir(); err != nil {
		return nil, nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.Dir, debugLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return logging.New(f, cfg.Settings.LogLevel, true), func() { f.Close() }, nil
}
