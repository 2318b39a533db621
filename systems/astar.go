package systems

import (
	"container/heap"
	"math"

	"github.com/pthm-cable/ambush/components"
)

// AStarPlanner runs A* searches over a navigation grid. The search
// data structures are reused between calls.
type AStarPlanner struct {
	grid *NavGrid

	openHeap  *nodeHeap
	closedSet map[int]struct{}
	cameFrom  map[int]int
	gScore    map[int]float64
	fScore    map[int]float64
}

// astarNode is a node in the A* open set.
type astarNode struct {
	gx, gy int
	f      float64
	index  int // Heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// NewAStarPlanner creates a planner over the given grid.
func NewAStarPlanner(grid *NavGrid) *AStarPlanner {
	return &AStarPlanner{
		grid:      grid,
		openHeap:  &nodeHeap{},
		closedSet: make(map[int]struct{}, 256),
		cameFrom:  make(map[int]int, 256),
		gScore:    make(map[int]float64, 256),
		fScore:    make(map[int]float64, 256),
	}
}

// FindPath computes a path from start to goal in world coordinates.
// Returns waypoints (cell centers, simplified by line of sight), or
// nil when no path exists. A blocked start snaps to the nearest open
// cell; a blocked goal fails.
func (a *AStarPlanner) FindPath(start, goal components.Vec2, rects []components.Rect) []components.Vec2 {
	grid := a.grid

	startGX, startGY := grid.WorldToGrid(start.X, start.Y)
	goalGX, goalGY := grid.WorldToGrid(goal.X, goal.Y)

	if grid.IsBlocked(startGX, startGY) {
		startGX, startGY = a.findNearestOpen(startGX, startGY)
		if startGX < 0 {
			return nil
		}
	}
	if grid.IsBlocked(goalGX, goalGY) {
		return nil
	}

	if startGX == goalGX && startGY == goalGY {
		return []components.Vec2{goal}
	}

	*a.openHeap = (*a.openHeap)[:0]
	for k := range a.closedSet {
		delete(a.closedSet, k)
	}
	for k := range a.cameFrom {
		delete(a.cameFrom, k)
	}
	for k := range a.gScore {
		delete(a.gScore, k)
	}
	for k := range a.fScore {
		delete(a.fScore, k)
	}

	startID := startGY*grid.width + startGX
	goalID := goalGY*grid.width + goalGX

	a.gScore[startID] = 0
	a.fScore[startID] = a.heuristic(startGX, startGY, goalGX, goalGY)
	heap.Push(a.openHeap, &astarNode{gx: startGX, gy: startGY, f: a.fScore[startID]})

	maxIterations := grid.width * grid.height
	for iterations := 0; a.openHeap.Len() > 0 && iterations < maxIterations; iterations++ {
		current := heap.Pop(a.openHeap).(*astarNode)
		currentID := current.gy*grid.width + current.gx

		if currentID == goalID {
			return a.reconstructPath(startID, goalID, goal, rects)
		}

		a.closedSet[currentID] = struct{}{}

		neighbors := [][2]int{
			{current.gx - 1, current.gy},
			{current.gx + 1, current.gy},
			{current.gx, current.gy - 1},
			{current.gx, current.gy + 1},
			{current.gx - 1, current.gy - 1},
			{current.gx + 1, current.gy - 1},
			{current.gx - 1, current.gy + 1},
			{current.gx + 1, current.gy + 1},
		}

		for i, n := range neighbors {
			ngx, ngy := n[0], n[1]
			if grid.IsBlocked(ngx, ngy) {
				continue
			}
			// Diagonal moves require both adjacent cardinals open so a
			// circle cannot cut a corner.
			if i >= 4 {
				dx, dy := ngx-current.gx, ngy-current.gy
				if grid.IsBlocked(current.gx+dx, current.gy) || grid.IsBlocked(current.gx, current.gy+dy) {
					continue
				}
			}

			neighborID := ngy*grid.width + ngx
			if _, ok := a.closedSet[neighborID]; ok {
				continue
			}

			moveCost := 1.0
			if i >= 4 {
				moveCost = math.Sqrt2
			}
			tentativeG := a.gScore[currentID] + moveCost

			existingG, exists := a.gScore[neighborID]
			if exists && tentativeG >= existingG {
				continue
			}

			a.cameFrom[neighborID] = currentID
			a.gScore[neighborID] = tentativeG
			a.fScore[neighborID] = tentativeG + a.heuristic(ngx, ngy, goalGX, goalGY)
			if !exists {
				heap.Push(a.openHeap, &astarNode{gx: ngx, gy: ngy, f: a.fScore[neighborID]})
			}
		}
	}

	return nil
}

func (a *AStarPlanner) heuristic(gx1, gy1, gx2, gy2 int) float64 {
	dx := float64(gx2 - gx1)
	dy := float64(gy2 - gy1)
	return math.Sqrt(dx*dx + dy*dy)
}

// findNearestOpen searches outward in rings for an open cell.
func (a *AStarPlanner) findNearestOpen(gx, gy int) (int, int) {
	for radius := 1; radius <= 4; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if !a.grid.IsBlocked(gx+dx, gy+dy) {
					return gx + dx, gy + dy
				}
			}
		}
	}
	return -1, -1
}

// reconstructPath walks cameFrom back to the start, converts to world
// coordinates, replaces the final cell center with the exact goal, and
// simplifies by line of sight.
func (a *AStarPlanner) reconstructPath(startID, goalID int, goal components.Vec2, rects []components.Rect) []components.Vec2 {
	var pathIDs []int
	current := goalID
	for current != startID {
		pathIDs = append(pathIDs, current)
		var ok bool
		current, ok = a.cameFrom[current]
		if !ok {
			break
		}
	}
	pathIDs = append(pathIDs, startID)

	path := make([]components.Vec2, len(pathIDs))
	for i := range pathIDs {
		id := pathIDs[len(pathIDs)-1-i]
		x, y := a.grid.GridToWorld(id%a.grid.width, id/a.grid.width)
		path[i] = components.Vec2{X: x, Y: y}
	}
	path[len(path)-1] = goal

	return simplifyPath(path, rects)
}

// simplifyPath drops intermediate waypoints that a straight, clear
// line can skip.
func simplifyPath(path []components.Vec2, rects []components.Rect) []components.Vec2 {
	if len(path) <= 2 {
		return path
	}
	simplified := []components.Vec2{path[0]}
	anchor := path[0]
	for i := 1; i < len(path)-1; i++ {
		if !LineOfSight(anchor, path[i+1], rects) {
			simplified = append(simplified, path[i])
			anchor = path[i]
		}
	}
	return append(simplified, path[len(path)-1])
}
