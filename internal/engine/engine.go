// Package engine runs the full termination-analysis pipeline over a single
// program's source text: parse, reduce to one counter, compile to a PTS,
// derive a global threshold and period, build the forward and backward
// Regular Markov Chain abstractions, assemble the Labeled Markov Chain, and
// decide almost-sure and positive almost-sure termination.
package engine

import (
	perr "pastry/internal/errors"
	"pastry/internal/lmc"
	"pastry/internal/normalizer"
	"pastry/internal/parser"
	"pastry/internal/pts"
	"pastry/internal/rmc"
)

// Result is the pipeline's verdict for one program.
type Result struct {
	AST   bool
	PAST  bool
	Class string
}

// Analyze runs the complete pipeline and returns its verdict.
func Analyze(source string) (Result, error) {
	prog, err := parser.ParseString("input", source)
	if err != nil {
		return Result{}, err
	}

	norm, err := normalizer.Normalize(prog)
	if err != nil {
		return Result{}, err
	}

	init := norm.Program.Variables[norm.VarName]
	system, err := pts.Build(norm.VarName, init, norm.Program.Body)
	if err != nil {
		return Result{}, err
	}

	threshold, periodPos, periodNeg := pts.AnalyzeThresholdAndPeriod(system)

	fwd := rmc.New(system, rmc.Forward, threshold, periodPos)
	bwd := rmc.New(system, rmc.Backward, threshold, periodNeg)

	chain, err := lmc.Build(system, threshold, fwd, bwd)
	if err != nil {
		return Result{}, err
	}

	astOk, pastOk, err := chain.Decide()
	if err != nil {
		return Result{}, perr.Wrap(err, "deciding termination")
	}

	return Result{AST: astOk, PAST: pastOk, Class: norm.Class}, nil
}
