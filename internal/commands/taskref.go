package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"gtodo/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num      int    // 1-based position in the collection, 0 if IDPrefix is set
	IDPrefix string // task ID or unique prefix of one
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. No args → error: task reference required
// 2. First arg all digits → position in the collection
// 3. Otherwise → task ID or ID prefix
// 4. More than one arg → error: unexpected argument
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	for _, r := range arg {
		if unicode.IsSpace(r) {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
	}
	return TaskRef{IDPrefix: arg}, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolveTask finds the task a reference points to in tasks.
// Returns the task and its 1-based position.
func ResolveTask(tasks []service.Task, ref TaskRef) (service.Task, int, error) {
	if ref.IDPrefix == "" {
		if ref.Num < 1 || ref.Num > len(tasks) {
			return service.Task{}, 0, fmt.Errorf("task number out of range: %d", ref.Num)
		}
		return tasks[ref.Num-1], ref.Num, nil
	}

	for i, t := range tasks {
		if t.ID == ref.IDPrefix {
			return t, i + 1, nil
		}
	}

	match := -1
	for i, t := range tasks {
		if strings.HasPrefix(t.ID, ref.IDPrefix) {
			if match >= 0 {
				return service.Task{}, 0, fmt.Errorf("ambiguous task id: %s", ref.IDPrefix)
			}
			match = i
		}
	}
	if match < 0 {
		return service.Task{}, 0, fmt.Errorf("task not found: %s", ref.IDPrefix)
	}
	return tasks[match], match + 1, nil
}

// resolveArgs parses and resolves a reference, printing user errors.
func resolveArgs(svc service.Service, args []string, errOut io.Writer) (service.Task, int, bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, 0, false
	}
	task, num, err := ResolveTask(svc.Tasks(), ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, 0, false
	}
	return task, num, true
}

// positions maps task IDs to their 1-based position in the collection.
func positions(tasks []service.Task) map[string]int {
	pos := make(map[string]int, len(tasks))
	for i, t := range tasks {
		pos[t.ID] = i + 1
	}
	return pos
}
