package geometry

// Bounds 空间平面尺寸（宽 x 深）
type Bounds struct {
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

// RectBounds 矩形轮廓：直接取给定尺寸
func RectBounds(xDim, yDim float64) Bounds {
	return Bounds{Width: Round3(xDim), Depth: Round3(yDim)}
}

// PolygonBounds 任意闭合轮廓：取顶点包围盒尺寸
// 顶点顺序无关（min/max 归约）。顶点数 ≤1 时返回零尺寸且 ok=false，
// 由调用方作为数据质量问题上报。
func PolygonBounds(points []Point2) (Bounds, bool) {
	if len(points) <= 1 {
		return Bounds{}, false
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	return Bounds{Width: Round3(maxX - minX), Depth: Round3(maxY - minY)}, true
}
