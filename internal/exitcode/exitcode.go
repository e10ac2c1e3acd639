// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty title, unknown task).
	UserError = 1

	// AuthError indicates the user is not signed in or sign-in failed.
	AuthError = 2

	// StorageError indicates the local store could not be opened or read.
	StorageError = 3
)
