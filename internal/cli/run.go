package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Run executes the caasets command line with args and returns the process
// exit code. Commands report their own failures through the output
// formatter; Run only prints errors nothing has reported yet, such as
// unknown flags.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, "caasets: %v\n", err)
	}
	return GetExitCode(err)
}
