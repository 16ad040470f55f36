package customers

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/platform/helpscout"
)

// CLIReporter renders import progress as a terminal bar.
type CLIReporter struct {
	progress *mpb.Progress
	bar      *mpb.Bar
	mu       sync.Mutex
	failed   int

	// read by the render goroutine, so kept outside mu
	status atomic.Value
}

func NewCLIReporter() *CLIReporter {
	r := &CLIReporter{
		progress: mpb.New(mpb.WithWidth(60)),
	}
	r.status.Store("Starting...")
	return r
}

func (r *CLIReporter) Report(p helpscout.ProgressReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch p.Step {
	case helpscout.StepInit:
		if r.bar != nil {
			return
		}
		r.bar = r.progress.AddBar(int64(p.Total),
			mpb.PrependDecorators(
				decor.Any(func(decor.Statistics) string {
					return fmt.Sprintf("%-24s", r.status.Load().(string))
				}, decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.Percentage(decor.WCSyncSpace), "✨ Done!"),
			),
		)

	case helpscout.StepCreated:
		r.status.Store("👤 " + truncate(p.Message, 21))
		r.increment()

	case helpscout.StepFailed:
		r.failed++
		r.status.Store(fmt.Sprintf("⚠️  %d failed", r.failed))
		r.increment()

	case helpscout.StepDone:
		if r.bar != nil {
			r.bar.SetTotal(int64(p.Total), true)
		}
	}
}

func (r *CLIReporter) increment() {
	if r.bar != nil {
		r.bar.Increment()
	}
}

// Wait blocks until the bar has finished rendering. It aborts an unfinished
// bar so an interrupted import does not hang the terminal.
func (r *CLIReporter) Wait() {
	r.mu.Lock()
	if r.bar != nil && !r.bar.Completed() {
		r.bar.Abort(false)
	}
	r.mu.Unlock()

	r.progress.Wait()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
