package commands

import (
	"errors"
	"strings"

	"gtodo/internal/service"
)

// optString is a string flag that remembers whether it was given, so edit
// can tell "--desc ''" (clear) from no flag (keep).
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// priorityFlag accepts low, medium or high.
type priorityFlag struct {
	value service.Priority
	set   bool
}

func (p *priorityFlag) String() string { return string(p.value) }

func (p *priorityFlag) Set(s string) error {
	prio, ok := service.LookupPriority(s)
	if !ok {
		return errors.New("must be low, medium or high")
	}
	p.value = prio
	p.set = true
	return nil
}

// filterFlag accepts all, open or complete.
type filterFlag struct {
	value service.Filter
}

func (f *filterFlag) String() string { return string(f.value) }

func (f *filterFlag) Set(s string) error {
	v, ok := service.ParseFilter(s)
	if !ok {
		return errors.New("must be all, open or complete")
	}
	f.value = v
	return nil
}

// sortFlag accepts due or priority.
type sortFlag struct {
	value service.SortKey
}

func (f *sortFlag) String() string { return string(f.value) }

func (f *sortFlag) Set(s string) error {
	v, ok := service.ParseSortKey(s)
	if !ok {
		return errors.New("must be due or priority")
	}
	f.value = v
	return nil
}

// joinTitle forms a title from positional args. Surrounding whitespace is
// dropped so a blank title is rejected like an empty one.
func joinTitle(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
