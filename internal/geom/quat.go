package geom

import "math"

const epsilon = 1e-9

// Quat is a unit rotation quaternion. Components follow the X, Y, Z, W layout
// used by most engines; W is the scalar part.
type Quat struct {
	X, Y, Z, W float64
}

// Identity is the no-op rotation.
var Identity = Quat{W: 1}

// AngleAxis builds a rotation of deg degrees around axis.
// A zero-length axis yields Identity.
func AngleAxis(deg float64, axis Vec3) Quat {
	n := axis.Normalize()
	if n.MagSq() == 0 {
		return Identity
	}
	half := deg * math.Pi / 360
	s := math.Sin(half)
	return Quat{n.X * s, n.Y * s, n.Z * s, math.Cos(half)}
}

// LookRotation returns the rotation that maps Forward onto forward while
// keeping the local up axis as close to Up as possible. When forward is
// parallel to Up the world Z axis is used as the reference instead.
func LookRotation(forward Vec3) Quat {
	f := forward.Normalize()
	if f.MagSq() == 0 {
		return Identity
	}
	r := Up.Cross(f)
	if r.MagSq() < epsilon {
		r = Forward.Cross(f)
	}
	r = r.Normalize()
	u := f.Cross(r)
	return fromBasis(r, u, f)
}

// fromBasis converts the orthonormal basis (columns r, u, f) to a quaternion.
func fromBasis(r, u, f Vec3) Quat {
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		return Quat{(m21 - m12) / s, (m02 - m20) / s, (m10 - m01) / s, s / 4}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		return Quat{s / 4, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		return Quat{(m01 + m10) / s, s / 4, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		return Quat{(m02 + m20) / s, (m12 + m21) / s, s / 4, (m10 - m01) / s}
	}
}

// Mul composes rotations: the result applies o first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	qv := Vec3{q.X, q.Y, q.Z}
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(qv.Cross(t))
}

// Dot is the 4D dot product; |Dot| == 1 means the same orientation.
func (q Quat) Dot(o Quat) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// SameRotation reports whether q and o describe the same orientation,
// treating q and -q as equal.
func (q Quat) SameRotation(o Quat, eps float64) bool {
	return math.Abs(math.Abs(q.Dot(o))-1) <= eps
}
