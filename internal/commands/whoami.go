package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"google.golang.org/api/option"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/oauth"
	"gtodo/internal/service"
	"gtodo/internal/session"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct {
	clientOpts []option.ClientOption
}

// SetClientOptions sets options for the userinfo client (for testing).
func (c *WhoamiCmd) SetClientOptions(opts ...option.ClientOption) {
	c.clientOpts = opts
}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the signed-in Google account" }
func (c *WhoamiCmd) Usage() string     { return "gtodo whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	token, ok := session.NewGate(cfg.OpenStore(), nil, cfg.Logger()).Token(ctx)
	if !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: gtodo login)")
		return exitcode.AuthError
	}

	acct, err := oauth.Userinfo(ctx, token, c.clientOpts...)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if acct.Name != "" {
		fmt.Fprintf(out, "%s (%s)\n", acct.Email, acct.Name)
	} else {
		fmt.Fprintln(out, acct.Email)
	}
	return exitcode.Success
}
