package geometry

// CoordinateFrame 窗洞位置坐标的参考框架判定结果
type CoordinateFrame string

const (
	// FrameAsGiven 原始坐标即墙体起始角坐标，未做修正
	FrameAsGiven CoordinateFrame = "as_given"
	// FrameMirrored 原始坐标从墙体远端起算，已沿墙轴镜像修正
	FrameMirrored CoordinateFrame = "mirrored_along_wall_axis"
)

// Placement 修正后的墙体局部坐标（原点在墙体起始角，x 沿墙长方向）
type Placement struct {
	X     float64         `json:"x"`
	Y     float64         `json:"y"`
	Frame CoordinateFrame `json:"frame"`
}

// CorrectPlacement 将窗洞原始位置归一化到墙体局部坐标。
//
// 源模型中墙体全长通常超出房间内墙跨度（墙延伸过房间边界），
// 从"错误"一端起算的位置因此会大于任何合理的房间内坐标。
// 当 rawX 同时超过房间宽度与深度时，判定为从远端起算，
// 取 wallLength - rawX - openingWidth 镜像回起始角。
// Y 是离地高度，不存在端点二义性，镜像分支不做修改。
func CorrectPlacement(rawX, rawY, wallLength, openingWidth, roomWidth, roomDepth float64) Placement {
	if rawX > roomWidth && rawX > roomDepth {
		return Placement{
			X:     wallLength - rawX - openingWidth,
			Y:     rawY,
			Frame: FrameMirrored,
		}
	}
	return Placement{X: rawX, Y: rawY, Frame: FrameAsGiven}
}

// WithinWall 修正后坐标是否落在墙体跨度内。
// 不满足时说明坐标二义性未能解决，须作为异常上报，不能静默通过。
func (p Placement) WithinWall(wallLength float64) bool {
	return p.X >= 0 && p.X <= wallLength
}
