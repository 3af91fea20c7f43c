package normalizer

import (
	"sort"

	"pastry/internal/ast"
	perr "pastry/internal/errors"
	"pastry/internal/symbolic"
)

// zBounded is the name of the single counter a Bounded (or CondBounded,
// which delegates here) program reduces to.
const zBounded = "z_bd"

// boundedSlot is one variable's place in the mixed-radix encoding: it
// occupies digit value (var+Comp) at place value PlaceValue, with Width
// possible digit values before carrying into the next place.
type boundedSlot struct {
	Name       string
	Comp       int64
	Width      int64
	PlaceValue int64
}

// convertBounded implements the Bounded reduction: each declared bounded
// variable var_i, known at analysis time to satisfy Lo_i <= var_i <= Hi_i, is
// packed as a fixed-width digit of a single mixed-radix counter z_bd;
// DIV/MOD recover each digit exactly since no digit ever carries beyond its
// declared width. An optional unbounded "central" variable (annotated but
// absent from the program) contributes no digit and is silently dropped, per
// the documented Open Question decision.
func convertBounded(prog *ast.Program, ann *ast.Annotation) (*Normalized, error) {
	slots, order, place := buildSlotsAndPlace(ann.Bounded)

	var unboundedPlace int64
	unboundedPresent := ann.Unbounded != ""
	if _, declared := prog.Variables[ann.Unbounded]; !declared {
		unboundedPresent = false
	}
	if unboundedPresent {
		unboundedPlace = place
	}

	return convertBoundedCore(prog, slots, order, ann.Unbounded, unboundedPresent, unboundedPlace)
}

func boundWidth(bv ast.BoundedVar) int64 {
	comp := int64(0)
	if -bv.Lo > comp {
		comp = -bv.Lo
	}
	return comp + bv.Hi + 1
}

// buildSlotsAndPlace assigns increasing mixed-radix place values to each
// bounded variable, smallest width first (matching the reference
// implementation's sort, though any order is equally correct here), and
// returns the total place value span consumed.
func buildSlotsAndPlace(triples []ast.BoundedVar) (slots map[string]*boundedSlot, order []string, place int64) {
	sorted := make([]ast.BoundedVar, len(triples))
	copy(sorted, triples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return boundWidth(sorted[i]) < boundWidth(sorted[j])
	})

	slots = map[string]*boundedSlot{}
	place = 1
	for _, bv := range sorted {
		comp := int64(0)
		if -bv.Lo > comp {
			comp = -bv.Lo
		}
		width := comp + bv.Hi + 1
		slots[bv.Name] = &boundedSlot{Name: bv.Name, Comp: comp, Width: width, PlaceValue: place}
		order = append(order, bv.Name)
		place *= width
	}
	return slots, order, place
}

func convertBoundedCore(prog *ast.Program, slots map[string]*boundedSlot, order []string, unboundedName string, unboundedPresent bool, unboundedPlace int64) (*Normalized, error) {
	var initVal int64
	for _, name := range order {
		s := slots[name]
		initVal += s.PlaceValue * (prog.Variables[name] + s.Comp)
	}
	if unboundedPresent {
		initVal += unboundedPlace * prog.Variables[unboundedName]
	}

	digitExpr := func(s *boundedSlot) symbolic.Expr {
		z := &symbolic.VarRef{Name: zBounded}
		var mod symbolic.Expr = z
		if s.PlaceValue*s.Width != 0 {
			mod = &symbolic.Mod{X: z, Y: symbolic.IntConst(s.PlaceValue * s.Width)}
		}
		div := &symbolic.Div{X: mod, Y: symbolic.IntConst(s.PlaceValue)}
		return &symbolic.Sub{X: div, Y: symbolic.IntConst(s.Comp)}
	}

	subst := map[string]symbolic.Expr{}
	for _, name := range order {
		subst[name] = digitExpr(slots[name])
	}
	if unboundedPresent {
		subst[unboundedName] = &symbolic.Div{X: &symbolic.VarRef{Name: zBounded}, Y: symbolic.IntConst(unboundedPlace)}
	}

	tr := ast.Transform{
		Guard: func(p symbolic.Pred) symbolic.Pred {
			return symbolic.SubstitutePred(p, subst)
		},
		Assign: func(a *ast.Assign) ast.Stmt {
			var place int64
			if s, ok := slots[a.Name]; ok {
				place = s.PlaceValue
			} else if unboundedPresent && a.Name == unboundedName {
				place = unboundedPlace
			} else {
				return &ast.Skip{}
			}
			return &ast.Assign{Name: zBounded, Positive: a.Positive, Magnitude: a.Magnitude * place}
		},
	}

	newBody := tr.Block(prog.Body)
	if len(order) == 0 && !unboundedPresent {
		return nil, perr.New(perr.Unclassified, "Bounded annotation names no variable present in the program")
	}

	newProg := &ast.Program{
		Variables:     map[string]int64{zBounded: initVal},
		VariableOrder: []string{zBounded},
		Body:          newBody,
	}
	return &Normalized{Program: newProg, VarName: zBounded, Class: "bounded"}, nil
}
