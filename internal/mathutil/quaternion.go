package mathutil

import "math"

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

// QuatFromMat3 converts a rotation matrix to a unit quaternion.
// Remote clients consume camera orientation in this form.
func QuatFromMat3(m Mat3) Quat {
	trace := m[0] + m[4] + m[8]
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return Quat{
			(m[7] - m[5]) * s,
			(m[2] - m[6]) * s,
			(m[3] - m[1]) * s,
			0.25 / s,
		}
	case m[0] > m[4] && m[0] > m[8]:
		s := 2 * math.Sqrt(1+m[0]-m[4]-m[8])
		return Quat{
			0.25 * s,
			(m[1] + m[3]) / s,
			(m[2] + m[6]) / s,
			(m[7] - m[5]) / s,
		}
	case m[4] > m[8]:
		s := 2 * math.Sqrt(1+m[4]-m[0]-m[8])
		return Quat{
			(m[1] + m[3]) / s,
			0.25 * s,
			(m[5] + m[7]) / s,
			(m[2] - m[6]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m[8]-m[0]-m[4])
		return Quat{
			(m[2] + m[6]) / s,
			(m[5] + m[7]) / s,
			0.25 * s,
			(m[3] - m[1]) / s,
		}
	}
}
