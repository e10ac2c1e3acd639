package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Fields without a flag keep their
// current value; the status is never changed.
type EditCmd struct {
	title    optString
	desc     optString
	due      optString
	priority priorityFlag
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's fields" }
func (c *EditCmd) Usage() string {
	return "gtodo edit [--title <text>] [--desc <text>] [--due <YYYY-MM-DD>] [--priority low|medium|high] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = EditCmd{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, _, ok := resolveArgs(svc, args, errOut)
	if !ok {
		return exitcode.UserError
	}

	if !c.title.set && !c.desc.set && !c.due.set && !c.priority.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --desc, --due or --priority)")
		return exitcode.UserError
	}

	d := service.DraftOf(task)
	if c.title.set {
		d.Title = strings.TrimSpace(c.title.value)
	}
	if c.desc.set {
		d.Description = c.desc.value
	}
	if c.due.set {
		d.DueDate = c.due.value
	}
	if c.priority.set {
		d.Priority = c.priority.value
	}

	if err := svc.Update(task.ID, d); err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			fmt.Fprintf(errOut, "error: %s\n", service.NoticeTitleRequired)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, service.NoticeUpdated)
	}
	return exitcode.Success
}
