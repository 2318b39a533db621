package systems

import "github.com/pthm-cable/ambush/components"

// DetectPlayer runs a guard's detection test: the player must be
// alive, inside the vision cone (range and angle inclusive), and have
// a clear line of sight from the guard. Dead guards see nothing.
func DetectPlayer(guardPos components.Vec2, g *components.Guard, playerPos components.Vec2, playerAlive bool, rects []components.Rect) bool {
	if !g.Alive || !playerAlive {
		return false
	}
	if !InCone(guardPos, g.Facing, g.HalfAngle, g.VisionRange, playerPos) {
		return false
	}
	return LineOfSight(guardPos, playerPos, rects)
}
