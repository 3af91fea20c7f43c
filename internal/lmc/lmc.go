// Package lmc assembles the finite Labeled Markov Chain that decides
// almost-sure and positive almost-sure termination: the irregular part
// near the counter's threshold, wired to the forward and backward Regular
// Markov Chain abstractions on either side.
package lmc

import (
	"fmt"

	"github.com/katalvlaran/lvlath/graph/core"

	"pastry/internal/pts"
	"pastry/internal/rmc"
	"pastry/internal/symbolic"
)

// LMC is the finite graph whose reachability structure decides AST/PAST.
type LMC struct {
	PTS       *pts.PTS
	Threshold int64

	G *core.Graph

	InitialID, TerminalID string

	// TransientStates and NullRecurrentStates hold the node IDs of every
	// regular-abstraction state the forward and backward RMCs classified,
	// tagged with their direction so they never collide.
	TransientStates     map[string]bool
	NullRecurrentStates map[string]bool
}

// Build constructs the LMC from a PTS, the global threshold beyond which
// the forward and backward RMC abstractions apply, and those two RMCs.
func Build(p *pts.PTS, threshold int64, fwd, bwd *rmc.RMC) (*LMC, error) {
	l := &LMC{
		PTS:                 p,
		Threshold:           threshold,
		G:                   core.NewGraph(true, false),
		InitialID:           irregularID(0, p.InitVal),
		TerminalID:          irregularID(p.TerminalState(), 0),
		TransientStates:     map[string]bool{},
		NullRecurrentStates: map[string]bool{},
	}
	l.G.AddVertex(&core.Vertex{ID: l.InitialID})
	l.G.AddVertex(&core.Vertex{ID: l.TerminalID})

	l.convertIrregularPart()
	if err := l.convertRegularPart("forward", fwd); err != nil {
		return nil, err
	}
	if err := l.convertRegularPart("backward", bwd); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *LMC) convertIrregularPart() {
	t := l.Threshold
	varName := l.PTS.VarName
	for _, pair := range l.PTS.TransitionPairs() {
		for _, tr := range l.PTS.Transitions(pair.From, pair.To) {
			switch tr.Delta {
			case 0:
				for x := -t; x <= t; x++ {
					if symbolic.EvalPred1(tr.Guard, varName, x) {
						l.G.AddEdge(irregularID(pair.From, x), irregularID(pair.To, x), 1)
					}
				}
			case 1:
				for x := -t; x < t; x++ {
					if symbolic.EvalPred1(tr.Guard, varName, x) {
						l.G.AddEdge(irregularID(pair.From, x), irregularID(pair.To, x+1), 1)
					}
				}
			case -1:
				for x := t; x > -t; x-- {
					if symbolic.EvalPred1(tr.Guard, varName, x) {
						l.G.AddEdge(irregularID(pair.From, x), irregularID(pair.To, x-1), 1)
					}
				}
			}
		}
	}
}

func (l *LMC) convertRegularPart(direction string, r *rmc.RMC) error {
	boundary := l.Threshold
	if direction == "backward" {
		boundary = -l.Threshold
	}

	for i := 0; i < l.PTS.States(); i++ {
		rmcState := r.GlobalState(0, int64(i))
		regID := regularID(direction, 0, i)
		for j := 0; j < l.PTS.States(); j++ {
			irr := pts.MCState{PTSState: j, Value: boundary}
			if _, _, ok := l.PTS.MCTransitionProb(irr, rmcState); ok {
				l.G.AddEdge(irregularID(j, boundary), regID, 1)
			}
			if _, _, ok := l.PTS.MCTransitionProb(rmcState, irr); ok {
				l.G.AddEdge(regID, irregularID(j, boundary), 1)
			}
		}
	}

	for loc := range r.BNonzero {
		l.G.AddEdge(regularID(direction, 0, loc.I), regularID(direction, 0, loc.J), 1)
	}
	for loc := range r.CNonzero {
		l.G.AddEdge(regularID(direction, 0, loc.I), regularID(direction, 1, loc.J), 1)
	}

	transient, nullRecurrent, reach, err := r.Level1Info()
	if err != nil {
		return err
	}

	w := len(reach)
	for i := 0; i < w; i++ {
		for j := 0; j < w; j++ {
			if reach[i][j] {
				l.G.AddEdge(regularID(direction, 1, i), regularID(direction, 0, j), 1)
			}
		}
	}

	for i := range transient {
		l.TransientStates[regularID(direction, 1, i)] = true
	}
	for i := range nullRecurrent {
		l.NullRecurrentStates[regularID(direction, 1, i)] = true
	}
	return nil
}

func irregularID(ptsState int, x int64) string { return fmt.Sprintf("I|%d|%d", ptsState, x) }
func regularID(direction string, level, i int) string {
	return fmt.Sprintf("R|%s|%d|%d", direction, level, i)
}
