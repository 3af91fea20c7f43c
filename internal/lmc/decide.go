package lmc

import (
	"github.com/katalvlaran/lvlath/graph/algorithms"
	"github.com/katalvlaran/lvlath/graph/core"
)

// PostSet returns every state reachable from the initial state, including
// the initial state itself.
func (l *LMC) PostSet() (map[string]bool, error) {
	res, err := algorithms.DFS(l.G, l.InitialID, nil)
	if err != nil {
		return nil, err
	}
	return res.Visited, nil
}

// verifyPostSetReachability reports whether every state reachable from the
// initial state can in turn reach the terminal state, and none of them are
// transient -- the structural condition for almost-sure termination.
func (l *LMC) verifyPostSetReachability(postSet map[string]bool) (bool, error) {
	rev := l.reversed()
	res, err := algorithms.DFS(rev, l.TerminalID, nil)
	if err != nil {
		return false, err
	}
	terminalReachable := res.Visited
	terminalReachable[l.TerminalID] = true

	for id := range postSet {
		if !terminalReachable[id] {
			return false, nil
		}
		if l.TransientStates[id] {
			return false, nil
		}
	}
	return true, nil
}

// verifyReachabilityToNullRecurrent reports whether the post-set of the
// initial state touches any null recurrent state.
func (l *LMC) verifyReachabilityToNullRecurrent(postSet map[string]bool) bool {
	for id := range postSet {
		if l.NullRecurrentStates[id] {
			return true
		}
	}
	return false
}

// Decide reports whether the program is almost-surely terminating (ast)
// and, if so, whether termination is positive almost-sure (past): ast holds
// iff every state the program can reach can still reach termination and
// none of them are transient; past additionally requires that none of
// those reachable states are null recurrent.
func (l *LMC) Decide() (ast, past bool, err error) {
	postSet, err := l.PostSet()
	if err != nil {
		return false, false, err
	}
	ok, err := l.verifyPostSetReachability(postSet)
	if err != nil {
		return false, false, err
	}
	if !ok {
		return false, false, nil
	}
	return true, !l.verifyReachabilityToNullRecurrent(postSet), nil
}

// reversed builds the edge-reversed copy of G, used to compute which
// states can reach a given target (ancestors).
func (l *LMC) reversed() *core.Graph {
	rev := core.NewGraph(true, false)
	for _, v := range l.G.Vertices() {
		rev.AddVertex(&core.Vertex{ID: v.ID})
	}
	for _, e := range l.G.Edges() {
		rev.AddEdge(e.To.ID, e.From.ID, e.Weight)
	}
	return rev
}
