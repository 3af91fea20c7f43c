package rmc

import "math/big"

// tarjanSCC computes the strongly connected components of the directed
// graph given by adj (adjacency lists over node indices 0..n-1), returning
// each component as a list of node indices and, for every node, the index
// of its component. No example in the reference corpus ships a strongly
// connected components algorithm, so this is a direct, unexceptional
// implementation of Tarjan's algorithm, iterative to avoid recursion limits
// on larger abstract chains.
func tarjanSCC(n int, adj [][]int) (sccs [][]int, nodeToSCC []int) {
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	visited := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	nextIndex := 0
	nodeToSCC = make([]int, n)
	for i := range nodeToSCC {
		nodeToSCC[i] = -1
	}

	type frame struct {
		node int
		pos  int
	}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		var work []frame
		work = append(work, frame{node: start})
		visited[start] = true
		index[start] = nextIndex
		lowlink[start] = nextIndex
		nextIndex++
		stack = append(stack, start)
		onStack[start] = true

		for len(work) > 0 {
			top := &work[len(work)-1]
			v := top.node
			if top.pos < len(adj[v]) {
				w := adj[v][top.pos]
				top.pos++
				if !visited[w] {
					visited[w] = true
					index[w] = nextIndex
					lowlink[w] = nextIndex
					nextIndex++
					stack = append(stack, w)
					onStack[w] = true
					work = append(work, frame{node: w})
				} else if onStack[w] {
					if index[w] < lowlink[v] {
						lowlink[v] = index[w]
					}
				}
				continue
			}

			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].node
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}
			if lowlink[v] == index[v] {
				var comp []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				compIdx := len(sccs)
				sccs = append(sccs, comp)
				for _, w := range comp {
					nodeToSCC[w] = compIdx
				}
			}
		}
	}
	return sccs, nodeToSCC
}

// bsccCategory determines a bottom strongly connected component's category
// by its stationary distribution: 0 if probability mass concentrates
// toward the left (level-0) copy, 2 toward the right (level-2) copy, 1 if
// balanced. A singleton BSCC's category is simply which of the three
// stacked copies it belongs to.
func (r *RMC) bsccCategory(bscc []int) (int, error) {
	width := int(r.Width)
	if len(bscc) == 1 {
		return bscc[0] / width, nil
	}

	n := len(bscc)
	pos := make(map[int]int, n)
	for k, node := range bscc {
		pos[node] = k
	}

	p := make([][]*big.Rat, n)
	for k := range p {
		p[k] = make([]*big.Rat, n)
		for l := range p[k] {
			p[k][l] = big.NewRat(0, 1)
		}
	}
	for k, u := range bscc {
		for l, v := range bscc {
			if val := r.abstractEdgeWeight(u, v); val != nil {
				p[k][l] = val
			}
		}
	}

	pi, err := solveStationary(p)
	if err != nil {
		return 0, err
	}

	left := big.NewRat(0, 1)
	right := big.NewRat(0, 1)
	for k, node := range bscc {
		switch node / width {
		case 0:
			left.Add(left, pi[k])
		case 2:
			right.Add(right, pi[k])
		}
	}
	switch left.Cmp(right) {
	case -1:
		return 2, nil
	case 1:
		return 0, nil
	default:
		return 1, nil
	}
}

// abstractEdgeWeight returns the transition probability used in the
// 3-copy abstract chain for an edge from node u to node v, where u and v
// are node indices in [0, 3*Width): the source copy is irrelevant (A, B, C
// are the same regardless of which of the three stacked copies u sits in),
// only the destination copy selects which matrix to consult.
func (r *RMC) abstractEdgeWeight(u, v int) *big.Rat {
	width := int(r.Width)
	i := u % width
	j := v % width
	switch v / width {
	case 0:
		return r.A[i][j]
	case 1:
		return r.B[i][j]
	case 2:
		return r.C[i][j]
	}
	return nil
}
