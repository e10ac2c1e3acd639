package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/oauth"
	"gtodo/internal/service"
	"gtodo/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	provider session.Provider
}

// SetProvider replaces the Google sign-in flow (for testing).
func (c *LoginCmd) SetProvider(p session.Provider) {
	c.provider = p
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in with Google" }
func (c *LoginCmd) Usage() string     { return "gtodo login [common flags]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	kv := cfg.OpenStore()
	if session.NewGate(kv, nil, cfg.Logger()).State(ctx) == session.Authenticated {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	provider := c.provider
	if provider == nil {
		oc, err := oauth.ClientConfig(cfg)
		if errors.Is(err, oauth.ErrNoClient) {
			printClientSetup(errOut, cfg)
			return exitcode.AuthError
		}
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		provider = oauth.NewProvider(oc, errOut, cfg.Logger())
	}

	outcome := session.NewGate(kv, provider, cfg.Logger()).SignIn(ctx)
	switch outcome.Kind {
	case session.Success:
		if !cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
		return exitcode.Success
	case session.Cancelled:
		if !cfg.Quiet {
			fmt.Fprintln(out, "sign-in cancelled")
		}
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: %s\n", outcome.Message)
		return exitcode.AuthError
	}
}

// printClientSetup explains how to provide OAuth client credentials.
func printClientSetup(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "error: no OAuth client configured in %s\n\n", cfg.Dir)
	fmt.Fprintln(w, "To sign in with Google, you need OAuth credentials:")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(w, "2. Create a project (or select an existing one)")
	fmt.Fprintln(w, "3. Create OAuth 2.0 credentials:")
	fmt.Fprintln(w, "   - Click 'Create Credentials' > 'OAuth client ID'")
	fmt.Fprintln(w, "   - Choose 'Desktop app' as application type")
	fmt.Fprintln(w, "   - Download the JSON file")
	fmt.Fprintln(w, "4. Save it as:")
	fmt.Fprintf(w, "   %s\n", cfg.OAuthClientPath())
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Alternatively set [oauth] client_ids in %s.\n", cfg.SettingsPath())
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Then run 'gtodo login' again.")
}
