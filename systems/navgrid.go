package systems

import "github.com/pthm-cable/ambush/components"

// NavGrid is a uniform navigation grid rasterized from the obstacle
// set. Cells are blocked when an obstacle (inflated by the agent
// radius) reaches them, so a path through open cells is walkable by a
// circle of that radius.
type NavGrid struct {
	cells    []bool // true = blocked
	cellSize float64
	width    int // grid width in cells
	height   int // grid height in cells
}

// NewNavGrid rasterizes the obstacles of a worldW x worldH world into
// a grid with the given cell size, inflating every obstacle by radius.
func NewNavGrid(worldW, worldH, cellSize, radius float64, rects []components.Rect) *NavGrid {
	w := int(worldW / cellSize)
	h := int(worldH / cellSize)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	g := &NavGrid{
		cells:    make([]bool, w*h),
		cellSize: cellSize,
		width:    w,
		height:   h,
	}

	for gy := 0; gy < h; gy++ {
		for gx := 0; gx < w; gx++ {
			cx := (float64(gx) + 0.5) * cellSize
			cy := (float64(gy) + 0.5) * cellSize
			center := components.Vec2{X: cx, Y: cy}

			blocked := false
			// Cells hugging the world boundary are blocked too.
			if cx < radius || cx > worldW-radius || cy < radius || cy > worldH-radius {
				blocked = true
			}
			for i := 0; !blocked && i < len(rects); i++ {
				if rects[i].OverlapsCircle(center, radius) {
					blocked = true
				}
			}
			g.cells[gy*w+gx] = blocked
		}
	}
	return g
}

// IsBlocked reports whether the cell is blocked; out of bounds counts
// as blocked.
func (g *NavGrid) IsBlocked(gx, gy int) bool {
	if gx < 0 || gx >= g.width || gy < 0 || gy >= g.height {
		return true
	}
	return g.cells[gy*g.width+gx]
}

// WorldToGrid converts world coordinates to grid coordinates.
func (g *NavGrid) WorldToGrid(x, y float64) (gx, gy int) {
	return int(x / g.cellSize), int(y / g.cellSize)
}

// GridToWorld converts grid coordinates to the cell-center world
// position.
func (g *NavGrid) GridToWorld(gx, gy int) (x, y float64) {
	return (float64(gx) + 0.5) * g.cellSize, (float64(gy) + 0.5) * g.cellSize
}
