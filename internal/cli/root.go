package cli

import (
	"context"
	"os"
)

// Execute runs the taskorder CLI with os.Args. Failures are printed to
// stderr before being returned, so callers only pick the exit code.
// Logs go to stderr at info level, or debug with --verbose.
//
// Example:
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	if err := root.ExecuteContext(ctx); err != nil {
		reportError(err)
		return err
	}
	return nil
}
