package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "gtodo help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  gtodo                                              Open the interactive task list
  gtodo ui [common flags]                            Open the interactive task list
  gtodo list [common flags] [--filter all|open|complete] [--sort due|priority]
             [--search <text>] [<text...>]
  gtodo add [common flags] [--desc <text>] [--due <YYYY-MM-DD>]
            [--priority low|medium|high] <title...>
  gtodo edit [common flags] [--title <text>] [--desc <text>] [--due <YYYY-MM-DD>]
             [--priority low|medium|high] <ref>
  gtodo done [common flags] <ref>                    Toggle open/complete
  gtodo rm [common flags] <ref>
  gtodo show [common flags] <ref>
  gtodo whoami [common flags]
  gtodo login [common flags]
  gtodo logout [common flags]
  gtodo help
  gtodo version

A <ref> is the task number shown by list, or a task ID prefix.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
