package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// EulerXYZ converts intrinsic XYZ Euler angles (radians) to a rotation matrix:
// Rx @ Ry @ Rz. This is the order gallery documents are authored in.
func EulerXYZ(r Vec3) Mat3 {
	return Mat3Mul(Mat3Mul(RotX(r[0]), RotY(r[1])), RotZ(r[2]))
}

// YawPitch is the camera orientation: RotY(yaw) @ RotX(pitch).
// At yaw = pitch = 0 the camera looks down -Z.
func YawPitch(yaw, pitch float64) Mat3 {
	return Mat3Mul(RotY(yaw), RotX(pitch))
}

// Forward returns the view direction for the given yaw and pitch.
func Forward(yaw, pitch float64) Vec3 {
	return Vec3{
		-math.Sin(yaw) * math.Cos(pitch),
		math.Sin(pitch),
		-math.Cos(yaw) * math.Cos(pitch),
	}
}

// LookAngles returns the yaw and pitch that aim an eye at target.
// Degenerate (coincident) inputs return zeros.
func LookAngles(eye, target Vec3) (yaw, pitch float64) {
	d := target.Sub(eye)
	flat := math.Hypot(d[0], d[2])
	if flat < 1e-12 && math.Abs(d[1]) < 1e-12 {
		return 0, 0
	}
	return math.Atan2(-d[0], -d[2]), math.Atan2(d[1], flat)
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// EulerFromMat3 recovers intrinsic XYZ Euler angles from a rotation matrix,
// the inverse of EulerXYZ. Near gimbal lock Z is reported as zero.
func EulerFromMat3(m Mat3) Vec3 {
	y := math.Asin(Clamp(m[2], -1, 1))
	if math.Abs(m[2]) < 0.9999999 {
		return Vec3{math.Atan2(-m[5], m[8]), y, math.Atan2(-m[1], m[0])}
	}
	return Vec3{math.Atan2(m[7], m[4]), y, 0}
}
