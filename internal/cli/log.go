// Package cli implements the taskorder command-line interface.
//
// # Commands
//
//   - resolve: Print the recommended order for a task file
//   - graph: Render the dependency graph (DOT, SVG, PNG or JSON)
//   - serve: Run the HTTP API
//   - cache: Inspect, prune or clear the local schedule cache
//
// # Logging
//
// Diagnostics go to stderr through a charmbracelet logger; the order itself
// and the other user-facing output go to stdout. Run with --verbose (-v) to
// see which file was loaded, whether the schedule came from the cache and
// how long resolution took. Subcommands find the logger on their context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat keeps stderr lines short: wall clock with hundredths.
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress measures one resolve or render step and reports it at debug
// level, so plain runs stay quiet.
type progress struct {
	logger *log.Logger
	start  time.Time
	now    func() time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now(), now: time.Now}
}

// done reports msg with the elapsed time appended, as in
// "Resolved 4 tasks (3ms)".
func (p *progress) done(msg string) {
	elapsed := p.now().Sub(p.start).Round(time.Millisecond)
	p.logger.Debugf("%s (%s)", msg, elapsed)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by the root command. Outside a
// command run it falls back to log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
