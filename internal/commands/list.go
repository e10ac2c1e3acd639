package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/output"
	"gtodo/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Numbers printed are positions in the whole collection, so they stay valid
// as refs for done, edit and rm whatever filter or sort is applied.
type ListCmd struct {
	filter filterFlag
	sort   sortFlag
	search string
}

// SetQuery sets the query flags (for testing).
func (c *ListCmd) SetQuery(q service.Query) {
	c.filter.value = q.Filter
	c.sort.value = q.Sort
	c.search = q.Search
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "gtodo list [--filter all|open|complete] [--sort due|priority] [--search <text>] [<text...>]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filter.value = service.FilterAll
	c.sort.value = service.SortDueDate
	c.search = ""
	fs.Var(&c.filter, "filter", "")
	fs.Var(&c.filter, "f", "")
	fs.Var(&c.sort, "sort", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	search := c.search
	if len(args) > 0 {
		if search != "" {
			fmt.Fprintln(errOut, "error: use either --search or search text, not both")
			return exitcode.UserError
		}
		search = strings.Join(args, " ")
	}

	all := svc.Tasks()
	if len(all) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks yet")
		}
		return exitcode.Success
	}

	view := svc.View(service.Query{Filter: c.filter.value, Search: search, Sort: c.sort.value})
	if len(view) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no matching tasks")
		}
		return exitcode.Success
	}

	pos := positions(all)
	for _, task := range view {
		output.FormatTask(out, pos[task.ID], task)
	}
	return exitcode.Success
}
