package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"gtodo/internal/cli"
	"gtodo/internal/commands"
	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/kvstore"
	"gtodo/internal/service"
	"gtodo/internal/session"
	"gtodo/internal/taskstore"
)

// storeFactory opens the file-backed task store in the config dir.
func storeFactory(ctx context.Context, cfg *config.Config) (service.Service, error) {
	return taskstore.Open(ctx, cfg.OpenStore(), taskstore.WithLogger(cfg.Logger())), nil
}

// signedInDir returns a config dir holding a session marker.
func signedInDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	kv := kvstore.Open(filepath.Join(dir, config.StoreFile))
	if err := kv.Set(context.Background(), session.TokenKey, "tok"); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
	return dir
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, storeFactory)
	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	code, _, stderr := run(t, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	code, _, stderr := run(t, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	code, stdout, stderr := run(t, "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	code, stdout, stderr := run(t, "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "gtodo 0.1.0\n" {
		t.Errorf("expected 'gtodo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	code, _, stderr := run(t, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_InvalidFlagValue(t *testing.T) {
	dir := signedInDir(t)
	code, _, stderr := run(t, "add", "--config", dir, "--priority", "urgent", "x")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "must be low, medium or high") {
		t.Errorf("expected priority error, got %q", stderr)
	}
}

func TestDispatcher_TaskCommandRequiresSession(t *testing.T) {
	code, stdout, stderr := run(t, "list", "--config", t.TempDir())

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: not logged in (run: gtodo login)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	dir := signedInDir(t)
	failing := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, context.DeadlineExceeded
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, failing)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", dir}, &stdout, &stderr)

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if !strings.HasPrefix(stderr.String(), "error: storage error:") {
		t.Errorf("expected storage error, got %q", stderr.String())
	}
}

func TestDispatcher_AddThenListPersists(t *testing.T) {
	dir := signedInDir(t)

	code, stdout, stderr := run(t, "add", "--config", dir, "--due", "2024-01-01", "--priority", "high", "Buy", "milk")
	if code != exitcode.Success {
		t.Fatalf("add: exit %d, stderr %q", code, stderr)
	}
	if stdout != "Task added\n" {
		t.Errorf("expected 'Task added', got %q", stdout)
	}

	code, stdout, stderr = run(t, "list", "--config", dir)
	if code != exitcode.Success {
		t.Fatalf("list: exit %d, stderr %q", code, stderr)
	}
	expected := "   1  [ ] Buy milk  (high, due 2024-01-01)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_FlagStateResetBetweenRuns(t *testing.T) {
	dir := signedInDir(t)

	if code, _, stderr := run(t, "add", "--config", dir, "--priority", "low", "first"); code != exitcode.Success {
		t.Fatalf("add: exit %d, stderr %q", code, stderr)
	}
	if code, _, stderr := run(t, "add", "--config", dir, "second"); code != exitcode.Success {
		t.Fatalf("add: exit %d, stderr %q", code, stderr)
	}

	_, stdout, _ := run(t, "list", "--config", dir, "--sort", "priority")
	expected := "   2  [ ] second  (medium, due N/A)\n" +
		"   1  [ ] first  (low, due N/A)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_QuietSuppressesNotices(t *testing.T) {
	dir := signedInDir(t)

	code, stdout, _ := run(t, "add", "--config", dir, "--quiet", "x")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}
