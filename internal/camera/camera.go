package camera

import (
	"math"

	"gallery-engine/internal/mathutil"
)

// Look control defaults: pointer speed and the polar angle window, measured
// from straight up.
const (
	PointerSpeed = 0.5
	MinPolar     = 0.3 * math.Pi
	MaxPolar     = 0.7 * math.Pi
	lookScale    = 0.002
)

// Camera is a first-person camera. At Yaw = Pitch = 0 it looks down -Z.
type Camera struct {
	Position Vec3
	Yaw      float64
	Pitch    float64
}

// Forward returns the unit view direction.
func (c Camera) Forward() Vec3 {
	return mathutil.Forward(c.Yaw, c.Pitch)
}

// Orientation returns the camera rotation matrix.
func (c Camera) Orientation() mathutil.Mat3 {
	return mathutil.YawPitch(c.Yaw, c.Pitch)
}

// Quaternion returns the camera rotation as a quaternion.
func (c Camera) Quaternion() mathutil.Quat {
	return mathutil.QuatFromMat3(c.Orientation())
}

// LookAt aims the camera at target. Pitch is not clamped.
func (c *Camera) LookAt(target Vec3) {
	yaw, pitch := mathutil.LookAngles(c.Position, target)
	if target.Sub(c.Position).Len() < 1e-12 {
		return
	}
	c.Yaw, c.Pitch = yaw, pitch
}

// Look applies a raw pointer delta (pixels) as pointer-lock controls do:
// moving right turns right, moving down looks down, and pitch stays inside
// the polar window.
func (c *Camera) Look(dx, dy, speed float64) {
	if speed <= 0 {
		speed = PointerSpeed
	}
	c.Yaw = mathutil.WrapAngle(c.Yaw - dx*lookScale*speed)
	c.Pitch = mathutil.Clamp(c.Pitch-dy*lookScale*speed, math.Pi/2-MaxPolar, math.Pi/2-MinPolar)
}

// Basis returns the horizontal forward and right unit vectors for movement.
func (c Camera) Basis() (forward, right Vec3) {
	s, co := math.Sin(c.Yaw), math.Cos(c.Yaw)
	return Vec3{-s, 0, -co}, Vec3{co, 0, -s}
}
