package domain

import (
	"github.com/mdjska/daylight-analysis/internal/geometry"
)

// Window 装配后的窗洞模型，坐标已归一化到墙体局部坐标系
// （原点在墙体起始角，x 沿墙长方向，y 为离地高度）。
type Window struct {
	Tag        string  `json:"tag"`
	Name       string  `json:"name"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	SillHeight float64 `json:"sill_height"`

	WallOrientation geometry.Orientation `json:"wall_orientation"`
	WallLength      float64              `json:"wall_length"`
	LocationX       float64              `json:"location_x"`
	LocationY       float64              `json:"location_y"`
	// OutOfRange 坐标二义性未解决，模拟时跳过、报告中标出
	OutOfRange bool `json:"out_of_range,omitempty"`
}

// Room 装配后的房间模型，分析运行的规范输出结构。
// 每次运行从只读快照生成一次，窗洞独占归属，装配后不再修改。
type Room struct {
	Code        string    `json:"code"`
	DisplayName string    `json:"display_name"`
	Width       float64   `json:"width"`
	Depth       float64   `json:"depth"`
	Height      float64   `json:"height"`
	Windows     []*Window `json:"windows"`
}
