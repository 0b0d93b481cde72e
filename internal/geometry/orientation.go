package geometry

import "math"

// Orientation 墙体朝向标签，front 为（假定的）北向
type Orientation string

const (
	Front   Orientation = "front"
	Back    Orientation = "back"
	Left    Orientation = "left"
	Right   Orientation = "right"
	Unknown Orientation = "unknown"
)

// cardinalAxes 参考方向到朝向标签的映射
// 注意：缺省参考方向（零向量）表示模型默认放置，对应 front，
// 在 Classify 中单独处理，不参与角度比较。
var cardinalAxes = []struct {
	axis  Vec3
	label Orientation
}{
	{Vec3{X: 0, Y: -1, Z: 0}, Right},
	{Vec3{X: 0, Y: 1, Z: 0}, Left},
	{Vec3{X: -1, Y: 0, Z: 0}, Back},
}

// OrientationClassifier 按余弦相似度将参考方向匹配到四个基准朝向。
// 精确元组比较对浮点噪声过于敏感，这里用角度容差代替。
type OrientationClassifier struct {
	minCos float64
}

// NewOrientationClassifier toleranceDeg 为与基准轴的最大夹角（度）
func NewOrientationClassifier(toleranceDeg float64) *OrientationClassifier {
	return &OrientationClassifier{
		minCos: math.Cos(toleranceDeg * math.Pi / 180),
	}
}

// Classify 纯函数：同一向量总是得到同一标签。
// nil 或零向量 → front；与任一基准轴夹角在容差内 → 对应标签；否则 unknown。
func (c *OrientationClassifier) Classify(v *Vec3) Orientation {
	if v == nil || v.IsZero() {
		return Front
	}

	norm := v.Norm()
	for _, cand := range cardinalAxes {
		cos := v.Dot(cand.axis) / norm
		if cos >= c.minCos {
			return cand.label
		}
	}
	return Unknown
}
