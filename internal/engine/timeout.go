package engine

import "time"

// Outcome is one input's complete analysis outcome, including whether the
// wall-clock budget ran out before a verdict was reached.
type Outcome struct {
	Result   Result
	Err      error
	TimedOut bool
	Elapsed  time.Duration
}

// AnalyzeWithTimeout runs Analyze on its own goroutine and races it against
// the given budget, mirroring the original CLI's per-input alarm: a program
// whose analysis runs long (a very wide Bounded encoding, a pathological
// guard) is abandoned rather than left to block the rest of a batch.
func AnalyzeWithTimeout(source string, budget time.Duration) Outcome {
	type done struct {
		result Result
		err    error
	}
	ch := make(chan done, 1)
	start := time.Now()

	go func() {
		r, err := Analyze(source)
		ch <- done{result: r, err: err}
	}()

	select {
	case d := <-ch:
		return Outcome{Result: d.result, Err: d.err, Elapsed: time.Since(start)}
	case <-time.After(budget):
		return Outcome{TimedOut: true, Elapsed: time.Since(start)}
	}
}
