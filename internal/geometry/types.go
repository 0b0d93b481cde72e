package geometry

import "math"

// Point2 平面点（plan view）
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3 空间点
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec3 三维方向向量（墙体参考方向）
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// IsZero 是否为零向量
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Norm 向量长度
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Box3 轴对齐包围盒
type Box3 struct {
	Min Point3 `json:"min"`
	Max Point3 `json:"max"`
}

// Expand 向各方向扩展 margin 后的包围盒
func (b Box3) Expand(margin float64) Box3 {
	return Box3{
		Min: Point3{X: b.Min.X - margin, Y: b.Min.Y - margin, Z: b.Min.Z - margin},
		Max: Point3{X: b.Max.X + margin, Y: b.Max.Y + margin, Z: b.Max.Z + margin},
	}
}

// Overlaps 两包围盒是否相交
func (b Box3) Overlaps(o Box3) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Center 包围盒中心点
func (b Box3) Center() Point3 {
	return Point3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Segment2 平面线段（墙体轴线）
type Segment2 struct {
	Start Point2 `json:"start"`
	End   Point2 `json:"end"`
}

// Length 线段长度
func (s Segment2) Length() float64 {
	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceTo 点到线段的垂直距离
func (s Segment2) DistanceTo(p Point2) float64 {
	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		// Degenerate axis, fall back to point distance
		return math.Hypot(p.X-s.Start.X, p.Y-s.Start.Y)
	}
	t := ((p.X-s.Start.X)*dx + (p.Y-s.Start.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := s.Start.X + t*dx
	cy := s.Start.Y + t*dy
	return math.Hypot(p.X-cx, p.Y-cy)
}

// Round3 四舍五入到 3 位小数（报告与尺寸输出统一精度）
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
