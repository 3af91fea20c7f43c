package normalizer

import (
	"pastry/internal/ast"
	"pastry/internal/symbolic"
)

// trend is the direction a variable's assignments move it, tracked while
// scanning the program body.
type trend int

const (
	trendNone trend = iota // never assigned
	trendUp
	trendDown
	trendFree // conflicting directions observed; the one variable allowed to be unbounded
)

// varInfo accumulates the combined threshold and period (max / lcm across
// every guard atom mentioning the variable) used to size its wrap-around
// loop and its eventual Bounded digit width.
type varInfo struct {
	threshold int64
	period    int64
}

// tryMonotone attempts the Monotone reduction: every variable is either
// never assigned, always assigned in the same direction, or (for at most
// one variable across the whole program) assigned in both directions, in
// which case it becomes the unbounded carry variable M. Every guard must be
// rectangular (each atomic sub-expression mentions at most one variable).
// On success each directional variable gets a wrap-around while loop
// inserted after every assignment to it, turning the program into a Bounded
// one, which is then handed to the Bounded transform. Returns ok=false (no
// error) if the program does not match this shape.
func tryMonotone(prog *ast.Program) (*Normalized, bool, error) {
	trends := map[string]trend{}
	for _, v := range prog.VariableOrder {
		trends[v] = trendNone
	}
	if !collectTrends(prog.Body, trends) {
		return nil, false, nil
	}

	infos := map[string]*varInfo{}
	for _, v := range prog.VariableOrder {
		if t := trends[v]; t == trendUp || t == trendDown {
			infos[v] = &varInfo{period: 1}
		}
	}

	for _, g := range ast.Guards(prog.Body) {
		for _, atom := range symbolic.GuardAtoms(g) {
			free := symbolic.FreeVars(atom)
			if len(free) > 1 {
				return nil, false, nil
			}
			if len(free) == 0 {
				continue
			}
			var name string
			for n := range free {
				name = n
			}
			info, tracked := infos[name]
			if !tracked {
				continue
			}
			t, period := symbolic.ThresholdPeriodExpr(atom, name)
			if t > info.threshold {
				info.threshold = t
			}
			info.period = symbolic.LCM(info.period, period)
		}
	}

	newBody, ok := insertWraparounds(prog.Body, trends, infos)
	if !ok {
		return nil, false, nil
	}

	var freeVar string
	for _, v := range prog.VariableOrder {
		if trends[v] == trendFree {
			freeVar = v
		}
	}

	var triples []ast.BoundedVar
	for _, v := range prog.VariableOrder {
		if v == freeVar {
			continue
		}
		init := prog.Variables[v]
		var comp, width int64
		switch trends[v] {
		case trendNone:
			comp = max64(-init, 0)
			width = abs64(init) + 1
		case trendUp:
			info := infos[v]
			comp = max64(-init, 0)
			width = max64(init, comp+info.threshold+info.period) + 1
		case trendDown:
			info := infos[v]
			comp = max64(-init, info.threshold+info.period)
			width = comp + 1
		}
		triples = append(triples, ast.BoundedVar{Name: v, Lo: -comp, Hi: width - comp - 1})
	}

	intermediate := &ast.Program{Variables: prog.Variables, VariableOrder: prog.VariableOrder, Body: newBody}

	slots, order, place := buildSlotsAndPlace(triples)
	n, err := convertBoundedCore(intermediate, slots, order, freeVar, freeVar != "", place)
	if err != nil {
		return nil, false, err
	}
	n.Class = "monotone"
	return n, true, nil
}

// collectTrends walks b, populating trends with each assigned variable's
// direction. At most one variable may ever need to flip to trendFree; a
// second conflicting variable makes the program non-monotone.
func collectTrends(b ast.Block, trends map[string]trend) bool {
	ok := true
	hasFree := false
	for _, t := range trends {
		if t == trendFree {
			hasFree = true
		}
	}

	var walk func(ast.Block)
	walk = func(b ast.Block) {
		for _, s := range b {
			if !ok {
				return
			}
			switch n := s.(type) {
			case *ast.Assign:
				dir := trendUp
				if !n.Positive {
					dir = trendDown
				}
				switch trends[n.Name] {
				case trendNone:
					trends[n.Name] = dir
				case trendUp, trendDown:
					if trends[n.Name] != dir {
						if hasFree {
							ok = false
						} else {
							trends[n.Name] = trendFree
							hasFree = true
						}
					}
				case trendFree:
				}
			case *ast.If:
				walk(n.Then)
				walk(n.Else)
			case *ast.While:
				walk(n.Body)
			case *ast.Choice:
				walk(n.Then)
				walk(n.Else)
			}
		}
	}
	walk(b)
	return ok
}

// insertWraparounds rewrites b, inserting a canonical wrap-around loop
// immediately after every assignment to a directional (non-free) variable:
// "while v > T+period: v := v - period" when increasing, symmetric when
// decreasing.
func insertWraparounds(b ast.Block, trends map[string]trend, infos map[string]*varInfo) (ast.Block, bool) {
	out := make(ast.Block, 0, len(b))
	for _, s := range b {
		switch n := s.(type) {
		case *ast.Assign:
			out = append(out, n)
			t := trends[n.Name]
			if t != trendUp && t != trendDown {
				continue
			}
			info := infos[n.Name]
			bound := info.threshold + info.period
			var guard symbolic.Pred
			var wrapAssign *ast.Assign
			if t == trendUp {
				guard = &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: n.Name}, Y: symbolic.IntConst(bound)}
				wrapAssign = &ast.Assign{Name: n.Name, Positive: false, Magnitude: info.period}
			} else {
				guard = &symbolic.Cmp{Op: symbolic.Lt, X: &symbolic.VarRef{Name: n.Name}, Y: symbolic.IntConst(-bound)}
				wrapAssign = &ast.Assign{Name: n.Name, Positive: true, Magnitude: info.period}
			}
			out = append(out, &ast.While{Guard: guard, Body: ast.Block{wrapAssign}})
		case *ast.If:
			then, ok1 := insertWraparounds(n.Then, trends, infos)
			els, ok2 := insertWraparounds(n.Else, trends, infos)
			if !ok1 || !ok2 {
				return nil, false
			}
			out = append(out, &ast.If{Guard: n.Guard, Then: then, Else: els})
		case *ast.While:
			body, ok1 := insertWraparounds(n.Body, trends, infos)
			if !ok1 {
				return nil, false
			}
			out = append(out, &ast.While{Guard: n.Guard, Body: body})
		case *ast.Choice:
			then, ok1 := insertWraparounds(n.Then, trends, infos)
			els, ok2 := insertWraparounds(n.Else, trends, infos)
			if !ok1 || !ok2 {
				return nil, false
			}
			out = append(out, &ast.Choice{Num: n.Num, Den: n.Den, Then: then, Else: els})
		default:
			out = append(out, s)
		}
	}
	return out, true
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func abs64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}
