package taskstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"gtodo/internal/service"
)

// recordSchema describes one persisted task. Only what a task cannot live
// without is enforced here; status and due date are checked by policy below.
const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "title"],
  "properties": {
    "id":          {"type": "string", "minLength": 1},
    "title":       {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "dueDate":     {"type": "string"},
    "status":      {"type": "string"}
  }
}`

var (
	compiledRecordSchema = jsonschema.MustCompileString("task-record.json", recordSchema)

	dueDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IssueKind classifies what the decode step did about a record.
type IssueKind string

const (
	// IssueRejected means the record was dropped.
	IssueRejected IssueKind = "rejected"
	// IssueDefaulted means a field was replaced by its default.
	IssueDefaulted IssueKind = "defaulted"
	// IssuePassedThrough means a malformed field was kept unchanged.
	IssuePassedThrough IssueKind = "passed-through"
)

// Issue records a decode policy decision for one record.
type Issue struct {
	Index  int // position in the stored array
	ID     string
	Field  string
	Kind   IssueKind
	Detail string
}

func (i Issue) String() string {
	id := i.ID
	if id == "" {
		id = "?"
	}
	return fmt.Sprintf("record %d (id %s): %s %s: %s", i.Index, id, i.Field, i.Kind, i.Detail)
}

// record is the persisted shape of a task.
type record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// EncodeCollection serializes the collection as one JSON array.
func EncodeCollection(tasks []service.Task) (string, error) {
	recs := make([]record, len(tasks))
	for i, t := range tasks {
		recs[i] = record{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
			Status:      string(t.Status),
			Priority:    string(t.Priority),
		}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeCollection parses a stored collection, applying the load policy to
// each record:
//   - records failing the schema, and later duplicates of an ID, are rejected
//   - a missing or unrecognized priority becomes medium
//   - an unrecognized status or a malformed due date is kept as is
//
// An error is returned only if data is not a JSON array.
func DecodeCollection(data string) ([]service.Task, []Issue, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(data), &raws); err != nil {
		return nil, nil, fmt.Errorf("stored collection is not a JSON array: %w", err)
	}

	tasks := make([]service.Task, 0, len(raws))
	var issues []Issue
	seen := make(map[string]bool, len(raws))

	for i, raw := range raws {
		t, recIssues, ok := decodeRecord(i, raw)
		issues = append(issues, recIssues...)
		if !ok {
			continue
		}
		if seen[t.ID] {
			issues = append(issues, Issue{Index: i, ID: t.ID, Field: "id", Kind: IssueRejected, Detail: "duplicate id"})
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, issues, nil
}

// decodeRecord turns one raw record into a task or rejects it.
func decodeRecord(index int, raw json.RawMessage) (service.Task, []Issue, bool) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return service.Task{}, []Issue{{Index: index, Field: "record", Kind: IssueRejected, Detail: err.Error()}}, false
	}

	if err := compiledRecordSchema.Validate(doc); err != nil {
		id := ""
		if obj, ok := doc.(map[string]interface{}); ok {
			id, _ = obj["id"].(string)
		}
		return service.Task{}, []Issue{{Index: index, ID: id, Field: "record", Kind: IssueRejected, Detail: schemaDetail(err)}}, false
	}

	// The schema guarantees every typed field is a string, but priority may
	// be anything, so decode it separately.
	var loose struct {
		ID          string      `json:"id"`
		Title       string      `json:"title"`
		Description string      `json:"description"`
		DueDate     string      `json:"dueDate"`
		Status      string      `json:"status"`
		Priority    interface{} `json:"priority"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return service.Task{}, []Issue{{Index: index, Field: "record", Kind: IssueRejected, Detail: err.Error()}}, false
	}
	rec := record{
		ID:          loose.ID,
		Title:       loose.Title,
		Description: loose.Description,
		DueDate:     loose.DueDate,
		Status:      loose.Status,
	}

	var issues []Issue

	prio, _ := loose.Priority.(string)
	p, ok := service.LookupPriority(prio)
	if !ok {
		p = service.PriorityMedium
		issues = append(issues, Issue{Index: index, ID: rec.ID, Field: "priority", Kind: IssueDefaulted, Detail: fmt.Sprintf("%v -> medium", loose.Priority)})
	}

	status := service.Status(rec.Status)
	if !status.Known() {
		issues = append(issues, Issue{Index: index, ID: rec.ID, Field: "status", Kind: IssuePassedThrough, Detail: fmt.Sprintf("unrecognized status %q", rec.Status)})
	}

	if rec.DueDate != "" && !dueDatePattern.MatchString(rec.DueDate) {
		issues = append(issues, Issue{Index: index, ID: rec.ID, Field: "dueDate", Kind: IssuePassedThrough, Detail: fmt.Sprintf("not YYYY-MM-DD: %q", rec.DueDate)})
	}

	return service.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		DueDate:     rec.DueDate,
		Status:      status,
		Priority:    p,
	}, issues, true
}

// schemaDetail flattens a validation error into its leaf messages.
func schemaDetail(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collectSchemaMessages(ve, &msgs)
	return strings.Join(msgs, "; ")
}

func collectSchemaMessages(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaMessages(cause, msgs)
	}
}
