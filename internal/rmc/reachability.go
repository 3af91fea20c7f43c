package rmc

// BooleanReachability computes the exact boolean reachability relation
// R = A ∨ B·R ∨ C·R·R over the strip, iterating the monotone boolean
// semiring fixpoint to convergence. Because the lattice of width×width
// boolean matrices is finite and the iteration is monotone increasing, it
// converges in a bounded number of rounds.
func (r *RMC) BooleanReachability() [][]bool {
	w := int(r.Width)
	a := toBoolMatrix(r.ANonzero, w)
	b := toBoolMatrix(r.BNonzero, w)
	c := toBoolMatrix(r.CNonzero, w)

	cur := zeroBoolMatrix(w)
	for {
		rr := boolMatMul(cur, cur)
		br := boolMatMul(b, cur)
		crr := boolMatMul(c, rr)
		next := orMatrices(a, br, crr)
		if equalBoolMatrix(next, cur) {
			return next
		}
		cur = next
	}
}

func toBoolMatrix(locs map[Loc]bool, w int) [][]bool {
	m := zeroBoolMatrix(w)
	for l := range locs {
		m[l.I][l.J] = true
	}
	return m
}

func zeroBoolMatrix(w int) [][]bool {
	m := make([][]bool, w)
	for i := range m {
		m[i] = make([]bool, w)
	}
	return m
}

func boolMatMul(x, y [][]bool) [][]bool {
	w := len(x)
	out := zeroBoolMatrix(w)
	for i := 0; i < w; i++ {
		for k := 0; k < w; k++ {
			if !x[i][k] {
				continue
			}
			for j := 0; j < w; j++ {
				if y[k][j] {
					out[i][j] = true
				}
			}
		}
	}
	return out
}

func orMatrices(mats ...[][]bool) [][]bool {
	w := len(mats[0])
	out := zeroBoolMatrix(w)
	for _, m := range mats {
		for i := 0; i < w; i++ {
			for j := 0; j < w; j++ {
				if m[i][j] {
					out[i][j] = true
				}
			}
		}
	}
	return out
}

func equalBoolMatrix(a, b [][]bool) bool {
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
