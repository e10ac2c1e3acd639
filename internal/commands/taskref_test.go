package commands

import (
	"testing"

	"gtodo/internal/service"
)

func TestParseTaskRef_Number(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.IDPrefix != "" {
		t.Errorf("expected no ID prefix, got %q", ref.IDPrefix)
	}
	if ref.Num != 5 {
		t.Errorf("expected Num 5, got %d", ref.Num)
	}
}

func TestParseTaskRef_IDPrefix(t *testing.T) {
	ref, err := ParseTaskRef([]string{"3f2a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.IDPrefix != "3f2a" {
		t.Errorf("expected IDPrefix 3f2a, got %q", ref.IDPrefix)
	}
	if ref.Num != 0 {
		t.Errorf("expected Num 0, got %d", ref.Num)
	}
}

func TestParseTaskRef_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, "task reference required"},
		{"blank", []string{"  "}, "task reference required"},
		{"two args", []string{"1", "2"}, "unexpected argument: 2"},
		{"inner space", []string{"a b"}, "invalid task reference: a b"},
		{"huge number", []string{"99999999999999999999999"}, "invalid task reference: 99999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaskRef(tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestParseTaskRef_NoArgsIsSentinel(t *testing.T) {
	if _, err := ParseTaskRef(nil); err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestResolveTask(t *testing.T) {
	tasks := []service.Task{
		{ID: "abc1", Title: "one"},
		{ID: "abd2", Title: "two"},
		{ID: "ab", Title: "three"},
	}

	tests := []struct {
		name    string
		ref     TaskRef
		wantID  string
		wantNum int
		wantErr string
	}{
		{name: "first position", ref: TaskRef{Num: 1}, wantID: "abc1", wantNum: 1},
		{name: "last position", ref: TaskRef{Num: 3}, wantID: "ab", wantNum: 3},
		{name: "zero", ref: TaskRef{Num: 0}, wantErr: "task number out of range: 0"},
		{name: "past end", ref: TaskRef{Num: 4}, wantErr: "task number out of range: 4"},
		{name: "unique prefix", ref: TaskRef{IDPrefix: "abd"}, wantID: "abd2", wantNum: 2},
		{name: "exact match wins over prefixes", ref: TaskRef{IDPrefix: "ab"}, wantID: "ab", wantNum: 3},
		{name: "ambiguous prefix", ref: TaskRef{IDPrefix: "a"}, wantErr: "ambiguous task id: a"},
		{name: "unknown", ref: TaskRef{IDPrefix: "zz"}, wantErr: "task not found: zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, num, err := ResolveTask(tasks, tt.ref)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if task.ID != tt.wantID || num != tt.wantNum {
				t.Errorf("expected %s at %d, got %s at %d", tt.wantID, tt.wantNum, task.ID, num)
			}
		})
	}
}
