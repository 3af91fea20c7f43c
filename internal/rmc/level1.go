package rmc

import (
	"fmt"

	"github.com/katalvlaran/lvlath/graph/algorithms"
	"github.com/katalvlaran/lvlath/graph/core"
)

// Level1Info classifies every level-1 strip state as transient, null
// recurrent, or neither (meaning positive recurrent, which drives neither
// an AST nor a PAST verdict on its own), and returns the boolean
// reachability matrix from level-1 back to level-0 states that the LMC
// needs to wire its own collapsing edges.
func (r *RMC) Level1Info() (transient, nullRecurrent map[int]bool, reach [][]bool, err error) {
	width := int(r.Width)

	adj := make([][]int, 3*width)
	for loc := range r.ANonzero {
		for level := 0; level < 3; level++ {
			u := level*width + loc.I
			adj[u] = append(adj[u], 0*width+loc.J)
		}
	}
	for loc := range r.BNonzero {
		for level := 0; level < 3; level++ {
			u := level*width + loc.I
			adj[u] = append(adj[u], 1*width+loc.J)
		}
	}
	for loc := range r.CNonzero {
		for level := 0; level < 3; level++ {
			u := level*width + loc.I
			adj[u] = append(adj[u], 2*width+loc.J)
		}
	}

	sccs, nodeToSCC := tarjanSCC(3*width, adj)

	condAdj := make(map[int]map[int]bool, len(sccs))
	for i := range sccs {
		condAdj[i] = map[int]bool{}
	}
	for u, neighbors := range adj {
		for _, v := range neighbors {
			i, j := nodeToSCC[u], nodeToSCC[v]
			if i != j {
				condAdj[i][j] = true
			}
		}
	}

	bottomCategory := map[int]int{}
	for i := range sccs {
		if len(condAdj[i]) == 0 {
			cat, cerr := r.bsccCategory(sccs[i])
			if cerr != nil {
				return nil, nil, nil, cerr
			}
			bottomCategory[i] = cat
		}
	}

	cond := core.NewGraph(true, false)
	for i := range sccs {
		cond.AddVertex(&core.Vertex{ID: condNodeID(i)})
	}
	for i, nbrs := range condAdj {
		for j := range nbrs {
			cond.AddEdge(condNodeID(i), condNodeID(j), 1)
		}
	}

	axisCategory := make([]int, width)
	for i := range sccs {
		var cat int
		var found bool
		if c, ok := bottomCategory[i]; ok {
			cat, found = c, true
		} else {
			res, derr := algorithms.DFS(cond, condNodeID(i), nil)
			if derr != nil {
				return nil, nil, nil, derr
			}
			for bottomIdx, c := range bottomCategory {
				if bottomIdx == i {
					continue
				}
				if res.Visited[condNodeID(bottomIdx)] {
					if !found || c > cat {
						cat = c
					}
					found = true
				}
			}
		}
		if !found {
			continue
		}
		for _, node := range sccs[i] {
			if node < width && cat > axisCategory[node] {
				axisCategory[node] = cat
			}
		}
	}

	reach = r.BooleanReachability()

	trapped, exit, rerr := r.analyzeRunway(reach)
	if rerr != nil {
		return nil, nil, nil, rerr
	}

	transient = map[int]bool{}
	nullRecurrent = map[int]bool{}
	for i := range trapped {
		transient[i] = true
	}
	for i := 0; i < width; i++ {
		if trapped[i] || exit[i] {
			continue
		}
		switch axisCategory[i] {
		case 2:
			transient[i] = true
		case 1:
			nullRecurrent[i] = true
		}
	}
	return transient, nullRecurrent, reach, nil
}

func condNodeID(i int) string { return fmt.Sprintf("c%d", i) }
