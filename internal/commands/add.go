package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	desc     string
	due      string
	priority priorityFlag
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "gtodo add [--desc <text>] [--due <YYYY-MM-DD>] [--priority low|medium|high] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.priority = priorityFlag{value: service.PriorityMedium}
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	prio := c.priority.value
	if prio == "" {
		prio = service.PriorityMedium
	}

	task, err := svc.Add(service.Draft{
		Title:       joinTitle(args),
		Description: c.desc,
		DueDate:     c.due,
		Priority:    prio,
	})
	if errors.Is(err, service.ErrTitleRequired) {
		fmt.Fprintf(errOut, "error: %s\n", service.NoticeTitleRequired)
		return exitcode.UserError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StorageError
	}

	cfg.Logger().Debug("task added", "id", task.ID)
	if !cfg.Quiet {
		fmt.Fprintln(out, service.NoticeAdded)
	}
	return exitcode.Success
}
