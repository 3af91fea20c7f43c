package rmc

import (
	"fmt"

	"github.com/katalvlaran/lvlath/graph/algorithms"
	"github.com/katalvlaran/lvlath/graph/core"
)

// analyzeRunway builds the "runway": a long strip of levels 0..3*Width
// connected by the same A/B/C arcs as the abstract chain, collapsed at its
// right edge by the level-1-to-level-0 boolean reachability matrix. A
// level-1 strip state is trapped if it can reach a node that can reach
// neither barrier (an infinite interior wander), and is an exit state if it
// can never reach the right barrier at all.
func (r *RMC) analyzeRunway(reach [][]bool) (trapped, exit map[int]bool, err error) {
	width := int(r.Width)
	maxLevel := 3 * width

	fwd := core.NewGraph(true, false)
	rev := core.NewGraph(true, false)
	addEdge := func(uLevel, uI, vLevel, vI int) {
		u := runwayID(uLevel, uI)
		v := runwayID(vLevel, vI)
		fwd.AddEdge(u, v, 1)
		rev.AddEdge(v, u, 1)
	}

	for loc := range r.ANonzero {
		for k := 0; k < maxLevel; k++ {
			addEdge(k+1, loc.I, k, loc.J)
		}
	}
	for loc := range r.BNonzero {
		for k := 0; k <= maxLevel; k++ {
			addEdge(k, loc.I, k, loc.J)
		}
	}
	for loc := range r.CNonzero {
		for k := 1; k < maxLevel; k++ {
			addEdge(k, loc.I, k+1, loc.J)
		}
	}
	for i := 0; i < width; i++ {
		for j := 0; j < width; j++ {
			if reach[i][j] {
				addEdge(maxLevel, i, maxLevel-1, j)
			}
		}
	}

	for i := 0; i < width; i++ {
		fwd.AddEdge(runwayID(0, i), "left_fake", 1)
		rev.AddEdge("left_fake", runwayID(0, i), 1)
		fwd.AddEdge(runwayID(maxLevel, i), "right_fake", 1)
		rev.AddEdge("right_fake", runwayID(maxLevel, i), 1)
	}

	leftAncestors, err := ancestorSet(rev, "left_fake")
	if err != nil {
		return nil, nil, err
	}
	rightAncestors, err := ancestorSet(rev, "right_fake")
	if err != nil {
		return nil, nil, err
	}

	isTrap := func(id string) bool {
		if id == "left_fake" || id == "right_fake" {
			return false
		}
		return !leftAncestors[id] && !rightAncestors[id]
	}

	trapped = map[int]bool{}
	exit = map[int]bool{}
	for i := 0; i < width; i++ {
		res, derr := algorithms.DFS(fwd, runwayID(1, i), nil)
		if derr != nil {
			return nil, nil, derr
		}
		trappedHit := false
		rightHit := false
		for id := range res.Visited {
			if id == "left_fake" || id == "right_fake" {
				continue
			}
			if isTrap(id) {
				trappedHit = true
			}
			if level, _ := parseRunwayID(id); level == maxLevel {
				rightHit = true
			}
		}
		if trappedHit {
			trapped[i] = true
		} else if !rightHit {
			exit[i] = true
		}
	}
	return trapped, exit, nil
}

func ancestorSet(rev *core.Graph, fakeID string) (map[string]bool, error) {
	res, err := algorithms.DFS(rev, fakeID, nil)
	if err != nil {
		return nil, err
	}
	out := map[string]bool{}
	for id := range res.Visited {
		if id != fakeID {
			out[id] = true
		}
	}
	return out, nil
}

func runwayID(level, i int) string { return fmt.Sprintf("%d|%d", level, i) }

func parseRunwayID(id string) (level, i int) {
	if id == "left_fake" || id == "right_fake" {
		return -1, -1
	}
	fmt.Sscanf(id, "%d|%d", &level, &i)
	return level, i
}
