package rmc

import "math/big"

// solveStationary finds the unique stationary distribution pi of the
// size×size rational transition matrix p (rows sum to 1, pi·p = pi), by
// replacing one balance equation with the normalization sum(pi) = 1 and
// solving the resulting linear system exactly with Gaussian elimination
// over big.Rat. Returns an error if the system has no solution or more than
// one degree of freedom, which can only happen if p is not in fact the
// transition matrix of a single closed irreducible class.
func solveStationary(p [][]*big.Rat) ([]*big.Rat, error) {
	n := len(p)
	if n == 1 {
		return []*big.Rat{big.NewRat(1, 1)}, nil
	}

	// Row i (i < n-1): sum_j pi_j * (p[j][i] - delta(i,j)) = 0
	// Row n-1: sum_j pi_j = 1
	m := make([][]*big.Rat, n)
	for i := range m {
		m[i] = make([]*big.Rat, n+1)
		for j := range m[i] {
			m[i][j] = big.NewRat(0, 1)
		}
	}
	for i := 0; i < n-1; i++ {
		for j := 0; j < n; j++ {
			v := new(big.Rat).Set(zeroIfNil(p[j][i]))
			if i == j {
				v.Sub(v, big.NewRat(1, 1))
			}
			m[i][j] = v
		}
	}
	for j := 0; j < n; j++ {
		m[n-1][j] = big.NewRat(1, 1)
	}
	m[n-1][n] = big.NewRat(1, 1)

	return gaussSolve(m, n)
}

func zeroIfNil(r *big.Rat) *big.Rat {
	if r == nil {
		return big.NewRat(0, 1)
	}
	return r
}

// gaussSolve solves the n×(n+1) augmented matrix m for n unknowns via
// Gauss-Jordan elimination with exact rational pivoting.
func gaussSolve(m [][]*big.Rat, n int) ([]*big.Rat, error) {
	row := 0
	pivotCol := make([]int, 0, n)
	for col := 0; col < n && row < n; col++ {
		sel := -1
		for r := row; r < n; r++ {
			if m[r][col].Sign() != 0 {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		m[row], m[sel] = m[sel], m[row]

		inv := new(big.Rat).Inv(m[row][col])
		for c := 0; c <= n; c++ {
			m[row][c].Mul(m[row][c], inv)
		}

		for r := 0; r < n; r++ {
			if r == row || m[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(m[r][col])
			for c := 0; c <= n; c++ {
				delta := new(big.Rat).Mul(factor, m[row][c])
				m[r][c].Sub(m[r][c], delta)
			}
		}
		pivotCol = append(pivotCol, col)
		row++
	}

	if row < n {
		for r := row; r < n; r++ {
			if m[r][n].Sign() != 0 {
				return nil, errIndeterminate("rmc: stationary distribution system is inconsistent")
			}
		}
		return nil, errIndeterminate("rmc: stationary distribution system is underdetermined")
	}

	out := make([]*big.Rat, n)
	for i, col := range pivotCol {
		out[col] = new(big.Rat).Set(m[i][n])
	}
	return out, nil
}
