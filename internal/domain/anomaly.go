package domain

// AnomalyKind 可恢复异常的类别
type AnomalyKind string

const (
	// AnomalyUnknownOrientation 墙体参考方向未匹配任何基准轴
	AnomalyUnknownOrientation AnomalyKind = "unknown_orientation"
	// AnomalyNoSupportingWall 空间查询未找到开口的承载墙
	AnomalyNoSupportingWall AnomalyKind = "no_supporting_wall"
	// AnomalyDegenerateProfile 空间轮廓退化（顶点数 ≤1）
	AnomalyDegenerateProfile AnomalyKind = "degenerate_profile"
	// AnomalyOutOfRangePlacement 修正后窗洞坐标仍落在墙体跨度外
	AnomalyOutOfRangePlacement AnomalyKind = "out_of_range_placement"
	// AnomalyUnmatchedWindow 窗洞的空间编号未匹配任何房间
	AnomalyUnmatchedWindow AnomalyKind = "unmatched_window"
	// AnomalyMissingDimension 构件缺失必要尺寸属性
	AnomalyMissingDimension AnomalyKind = "missing_dimension"
)

// Anomaly 批处理过程中收集的单条可恢复异常。
// 管道尽量完成全部提取并在汇总中报告异常，而不是在第一条异常处停止。
type Anomaly struct {
	Kind    AnomalyKind `json:"kind"`
	Subject string      `json:"subject"` // 相关构件的标签或编号
	Detail  string      `json:"detail"`
}
