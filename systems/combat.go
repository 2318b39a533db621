package systems

import (
	"math"

	"github.com/pthm-cable/ambush/components"
)

// BulletVelocity returns the fixed velocity for a new bullet: a unit
// vector from the shot origin to the target, scaled by speed. When the
// two coincide the shooter's facing decides the direction.
func BulletVelocity(req *ShotRequest, speed float64) components.Vec2 {
	dir := req.Target.Sub(req.Origin).Normalized()
	if dir.X == 0 && dir.Y == 0 {
		dir = components.Vec2{X: math.Cos(req.Facing), Y: math.Sin(req.Facing)}
	}
	return dir.Scale(speed)
}

// StepBullet advances one live bullet by one tick: the lifetime counts
// down, the bullet moves by its fixed velocity, and it dies on expiry,
// on leaving the world bounds, or on touching an obstacle. Reports
// whether the bullet is still live afterwards.
func StepBullet(pos *components.Position, b *components.Projectile, bounds components.Rect, rects []components.Rect) bool {
	if !b.Alive {
		return false
	}
	b.TTL--
	if b.TTL <= 0 {
		b.Alive = false
		return false
	}
	pos.X += b.Vel.X
	pos.Y += b.Vel.Y
	p := pos.Vec()
	if !bounds.Contains(p) {
		b.Alive = false
		return false
	}
	for _, r := range rects {
		if r.OverlapsCircle(p, b.Radius) {
			b.Alive = false
			return false
		}
	}
	return true
}

// BulletHitsPlayer reports whether a live bullet touches a live player
// circle. Boundary contact counts.
func BulletHitsPlayer(bulletPos components.Vec2, b *components.Projectile, playerPos components.Vec2, playerRadius float64) bool {
	if !b.Alive {
		return false
	}
	return bulletPos.Sub(playerPos).Len() <= b.Radius+playerRadius
}

// InMeleeRange reports whether a guard is within the player's kill
// distance. The boundary is inclusive. Proximity only ever harms the
// guard; the reverse direction is handled by bullets (or by contact
// kill in melee-only mode).
func InMeleeRange(playerPos, guardPos components.Vec2, attackRange float64) bool {
	return guardPos.Sub(playerPos).Len() <= attackRange
}

// CirclesTouch reports overlap of two circles, boundary inclusive.
// Used by the legacy melee-only mode where guard contact kills the
// player.
func CirclesTouch(a components.Vec2, ra float64, b components.Vec2, rb float64) bool {
	return b.Sub(a).Len() <= ra+rb
}
