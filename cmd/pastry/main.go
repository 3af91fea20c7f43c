package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"pastry/internal/engine"
	perr "pastry/internal/errors"
)

// globList collects repeated -input flags into an ordered slice, expanded
// against the filesystem at Resolve time.
type globList []string

func (g *globList) String() string { return strings.Join(*g, ",") }
func (g *globList) Set(v string) error {
	*g = append(*g, v)
	return nil
}

func main() {
	var patterns globList
	flag.Var(&patterns, "input", "glob pattern of PCP source files to analyze (repeatable)")
	timeoutSec := flag.Float64("timeout", 90.0, "per-input wall-clock budget, in seconds")
	csv := flag.Bool("csv", false, "emit one CSV row per input instead of a human report")
	flag.Parse()

	if len(patterns) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: pastry --input <glob>... [--timeout seconds] [--csv]")
		os.Exit(1)
	}

	inputs, err := resolveInputs(patterns)
	if err != nil {
		color.Red("failed to resolve --input patterns: %s", err)
		os.Exit(1)
	}

	budget := time.Duration(*timeoutSec * float64(time.Second))

	if *csv {
		fmt.Println("name,ast,past,seconds")
	}

	for _, path := range inputs {
		runInput(path, budget, *csv)
	}
}

func resolveInputs(patterns globList) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func runInput(path string, budget time.Duration, csv bool) {
	if !csv {
		fmt.Printf("Running: %s\n", path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		reportFailure(path, csv, "", fmt.Errorf("reading input: %w", err))
		return
	}

	logPath := logFilePath(path)
	logFile, logErr := openLog(logPath)
	if logErr == nil {
		defer logFile.Close()
		fmt.Fprintf(logFile, "input: %s\n", path)
	}

	outcome := engine.AnalyzeWithTimeout(string(source), budget)

	if logFile != nil {
		fmt.Fprintf(logFile, "elapsed: %s\n", outcome.Elapsed)
		if outcome.TimedOut {
			fmt.Fprintln(logFile, "result: TIMEOUT")
		} else if outcome.Err != nil {
			fmt.Fprintf(logFile, "result: error: %s\n", outcome.Err)
		} else {
			fmt.Fprintf(logFile, "result: ast=%v past=%v class=%s\n", outcome.Result.AST, outcome.Result.PAST, outcome.Result.Class)
		}
	}

	switch {
	case outcome.TimedOut:
		reportTimeout(path, csv)
	case outcome.Err != nil:
		reportFailure(path, csv, string(source), outcome.Err)
	default:
		reportResult(path, csv, outcome.Result, outcome.Elapsed)
	}
}

func reportResult(path string, csv bool, r engine.Result, elapsed time.Duration) {
	if csv {
		fmt.Printf("%s,%v,%v,%.3f\n", path, r.AST, r.PAST, elapsed.Seconds())
		return
	}
	fmt.Printf("AST  : %v\n", r.AST)
	fmt.Printf("PAST : %v\n", r.PAST)
	fmt.Printf("Time : %.3f\n", elapsed.Seconds())
}

func reportTimeout(path string, csv bool) {
	if csv {
		fmt.Printf("%s,None,None,TO\n", path)
		return
	}
	color.Yellow("AST  : None")
	color.Yellow("PAST : None")
	color.Yellow("Time : TO")
}

func reportFailure(path string, csv bool, source string, err error) {
	if csv {
		fmt.Printf("%s,None,None,ERR\n", path)
		return
	}
	if pe, ok := err.(*perr.PastryError); ok {
		reporter := &perr.Reporter{}
		fmt.Print(reporter.FormatError(pe, source))
		return
	}
	color.Red("%s: %s", path, err)
}

func logFilePath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join("outputs", "logs", fmt.Sprintf("%d_%s.log", time.Now().Unix(), stem))
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
