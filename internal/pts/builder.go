package pts

import (
	"pastry/internal/ast"
	perr "pastry/internal/errors"
	"pastry/internal/symbolic"
)

// exitInfo is a pending arc out of a just-built sub-block: a source state
// plus the (guard, probability, update) a parent block must weld onto
// whatever state comes next. It mirrors the "exit_info" tuples the original
// PTS builder threads through its recursion.
type exitInfo struct {
	from  int
	guard symbolic.Pred
	num   int64
	den   int64
	delta int64
}

// builder holds the in-progress PTS during a single Build call.
type builder struct {
	pts *PTS
}

// Build lowers a normalized single-counter program into a PTS, per the PTS
// builder design: a run of consecutive assignments is coalesced into a
// chain of unit-step states, control constructs each get one state, and a
// synthetic terminal state absorbs every exit and then drives the counter
// monotonically to zero.
func Build(varName string, initVal int64, body ast.Block) (*PTS, error) {
	b := &builder{pts: &PTS{VarName: varName, InitVal: initVal, transitions: map[statePair][]Transition{}}}

	exits, _, err := b.buildBlock(body)
	if err != nil {
		return nil, err
	}

	terminal := b.addState(LabelTerminal)
	for _, e := range exits {
		b.weld(e, terminal)
	}
	v := &symbolic.VarRef{Name: varName}
	b.addTransition(terminal, terminal, &symbolic.Cmp{Op: symbolic.Gt, X: v, Y: symbolic.IntConst(0)}, 1, 1, -1)
	b.addTransition(terminal, terminal, &symbolic.Cmp{Op: symbolic.Lt, X: v, Y: symbolic.IntConst(0)}, 1, 1, 1)
	b.addTransition(terminal, terminal, &symbolic.Cmp{Op: symbolic.Eq, X: v, Y: symbolic.IntConst(0)}, 1, 1, 0)

	return b.pts, nil
}

func (b *builder) addState(label Label) int {
	b.pts.Labels = append(b.pts.Labels, label)
	return len(b.pts.Labels) - 1
}

func (b *builder) addTransition(from, to int, guard symbolic.Pred, num, den, delta int64) {
	if len(symbolic.FreeVarsPred(guard)) > 0 {
		b.pts.NonTrivial = append(b.pts.NonTrivial, guard)
	}
	key := statePair{from, to}
	b.pts.transitions[key] = append(b.pts.transitions[key], Transition{Guard: guard, Num: num, Den: den, Delta: delta})
}

func (b *builder) weld(e exitInfo, to int) {
	b.addTransition(e.from, to, e.guard, e.num, e.den, e.delta)
}

// isNoOp reports whether a block is effectively empty: no statements, or a
// single Skip.
func isNoOp(blk ast.Block) bool {
	if len(blk) == 0 {
		return true
	}
	if len(blk) == 1 {
		_, ok := blk[0].(*ast.Skip)
		return ok
	}
	return false
}

// flatten splices away any stray *ast.Seq nodes a Transform pass left
// behind (Transform.Block already does this for the normalizer's own
// output, but the builder flattens defensively since it is the last stage
// before the AST becomes opaque graph state).
func flatten(blk ast.Block) ast.Block {
	hasSeq := false
	for _, s := range blk {
		if _, ok := s.(*ast.Seq); ok {
			hasSeq = true
			break
		}
	}
	if !hasSeq {
		return blk
	}
	out := make(ast.Block, 0, len(blk))
	for _, s := range blk {
		if seq, ok := s.(*ast.Seq); ok {
			out = append(out, flatten(seq.Stmts)...)
		} else {
			out = append(out, s)
		}
	}
	return out
}

// buildBlock recursively lowers a block, returning the list of pending
// exits and the entry state ID a predecessor should target.
func (b *builder) buildBlock(blk ast.Block) (exits []exitInfo, entry int, err error) {
	blk = flatten(blk)

	if len(blk) == 0 {
		s := b.addState(LabelEmpty)
		return []exitInfo{{from: s, guard: symbolic.True, num: 1, den: 1, delta: 0}}, s, nil
	}

	var mergedExits [][]exitInfo
	var mergedEntries []int

	i := 0
	for i < len(blk) {
		if a, ok := blk[i].(*ast.Assign); ok {
			sum := signedMagnitude(a)
			j := i + 1
			for j < len(blk) {
				next, ok := blk[j].(*ast.Assign)
				if !ok {
					break
				}
				sum += signedMagnitude(next)
				j++
			}
			i = j
			if sum == 0 {
				continue
			}
			exitList, entryState := b.buildAssignRun(sum)
			mergedExits = append(mergedExits, exitList)
			mergedEntries = append(mergedEntries, entryState)
			continue
		}

		exitList, entryState, stmtErr := b.buildStmt(blk[i])
		if stmtErr != nil {
			return nil, 0, stmtErr
		}
		mergedExits = append(mergedExits, exitList)
		mergedEntries = append(mergedEntries, entryState)
		i++
	}

	if len(mergedEntries) == 0 {
		return b.buildBlock(ast.Block{})
	}

	b.chain(mergedExits, mergedEntries)
	return mergedExits[len(mergedExits)-1], mergedEntries[0], nil
}

// chain welds each block's exits onto the next block's entry, for every
// consecutive pair -- the sequencing glue between sibling sub-blocks.
func (b *builder) chain(exits [][]exitInfo, entries []int) {
	for idx := 1; idx < len(entries); idx++ {
		for _, e := range exits[idx-1] {
			b.weld(e, entries[idx])
		}
	}
}

func signedMagnitude(a *ast.Assign) int64 {
	if a.Positive {
		return a.Magnitude
	}
	return -a.Magnitude
}

// buildAssignRun lowers a coalesced run of assignments with net update
// value to a chain of |value| unit-step states.
func (b *builder) buildAssignRun(value int64) ([]exitInfo, int) {
	sign := int64(1)
	if value < 0 {
		sign = -1
	}
	n := value
	if n < 0 {
		n = -n
	}

	var states []int
	for k := int64(0); k < n; k++ {
		states = append(states, b.addState(LabelAssign))
	}
	for k := 1; k < len(states); k++ {
		b.addTransition(states[k-1], states[k], symbolic.True, 1, 1, sign)
	}
	last := states[len(states)-1]
	return []exitInfo{{from: last, guard: symbolic.True, num: 1, den: 1, delta: sign}}, states[0]
}

func (b *builder) buildStmt(s ast.Stmt) ([]exitInfo, int, error) {
	switch n := s.(type) {
	case *ast.While:
		return b.buildWhile(n)
	case *ast.If:
		return b.buildIf(n)
	case *ast.Choice:
		return b.buildChoice(n)
	case *ast.Skip:
		st := b.addState(LabelEmpty)
		return []exitInfo{{from: st, guard: symbolic.True, num: 1, den: 1, delta: 0}}, st, nil
	default:
		return nil, 0, perr.New(perr.Internal, "pts: unreachable statement kind in builder")
	}
}

func (b *builder) buildWhile(n *ast.While) ([]exitInfo, int, error) {
	s := b.addState(LabelWhile)
	negated := symbolic.Negate(n.Guard)
	exits := []exitInfo{{from: s, guard: negated, num: 1, den: 1, delta: 0}}

	if isNoOp(n.Body) {
		b.addTransition(s, s, n.Guard, 1, 1, 0)
	} else {
		bodyExits, bodyEntry, err := b.buildBlock(n.Body)
		if err != nil {
			return nil, 0, err
		}
		b.addTransition(s, bodyEntry, n.Guard, 1, 1, 0)
		for _, e := range bodyExits {
			b.weld(e, s)
		}
	}
	return exits, s, nil
}

func (b *builder) buildIf(n *ast.If) ([]exitInfo, int, error) {
	s := b.addState(LabelIf)
	negated := symbolic.Negate(n.Guard)

	var thenExits []exitInfo
	if isNoOp(n.Then) {
		thenExits = []exitInfo{{from: s, guard: n.Guard, num: 1, den: 1, delta: 0}}
	} else {
		exits, entry, err := b.buildBlock(n.Then)
		if err != nil {
			return nil, 0, err
		}
		b.addTransition(s, entry, n.Guard, 1, 1, 0)
		thenExits = exits
	}

	var elseExits []exitInfo
	if isNoOp(n.Else) {
		elseExits = []exitInfo{{from: s, guard: negated, num: 1, den: 1, delta: 0}}
	} else {
		exits, entry, err := b.buildBlock(n.Else)
		if err != nil {
			return nil, 0, err
		}
		b.addTransition(s, entry, negated, 1, 1, 0)
		elseExits = exits
	}

	return append(thenExits, elseExits...), s, nil
}

func (b *builder) buildChoice(n *ast.Choice) ([]exitInfo, int, error) {
	s := b.addState(LabelChoice)
	num, den := n.Num, n.Den
	negNum, negDen := den-num, den

	var thenExits []exitInfo
	if isNoOp(n.Then) {
		thenExits = []exitInfo{{from: s, guard: symbolic.True, num: num, den: den, delta: 0}}
	} else {
		exits, entry, err := b.buildBlock(n.Then)
		if err != nil {
			return nil, 0, err
		}
		b.addTransition(s, entry, symbolic.True, num, den, 0)
		thenExits = exits
	}

	var elseExits []exitInfo
	if isNoOp(n.Else) {
		elseExits = []exitInfo{{from: s, guard: symbolic.True, num: negNum, den: negDen, delta: 0}}
	} else {
		exits, entry, err := b.buildBlock(n.Else)
		if err != nil {
			return nil, 0, err
		}
		b.addTransition(s, entry, symbolic.True, negNum, negDen, 0)
		elseExits = exits
	}

	return append(thenExits, elseExits...), s, nil
}
