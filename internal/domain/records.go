package domain

import (
	"github.com/mdjska/daylight-analysis/internal/geometry"
)

// RoomRecord 单个空间的平面提取记录
type RoomRecord struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
	// Degenerate 轮廓退化（顶点数 ≤1），尺寸为零
	Degenerate bool `json:"degenerate,omitempty"`
}

// WindowRecord 单个窗洞的提取记录，RoomCode 指向所属空间
type WindowRecord struct {
	RoomCode   string  `json:"room_code"`
	Tag        string  `json:"tag"`
	Name       string  `json:"name"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	SillHeight float64 `json:"sill_height"`

	WallTag         string                   `json:"wall_tag"`
	WallOrientation geometry.Orientation     `json:"wall_orientation"`
	WallLength      float64                  `json:"wall_length"`
	LocationX       float64                  `json:"location_x"`
	LocationY       float64                  `json:"location_y"`
	Frame           geometry.CoordinateFrame `json:"frame"`
	// OutOfRange 修正后 locationX 仍落在墙体跨度外
	OutOfRange bool `json:"out_of_range,omitempty"`
}

// DoorRecord 外部门的提取记录
type DoorRecord struct {
	RoomCode string  `json:"room_code"`
	Tag      string  `json:"tag"`
	Name     string  `json:"name"`
	Type     string  `json:"type"` // "External Glass Door" / "External No-glass Door"
	Height   float64 `json:"height"`
	Width    float64 `json:"width"`
}

// WallLayer 墙体材料层记录
type WallLayer struct {
	Material  string  `json:"material"`
	Thickness float64 `json:"thickness"`
}

// WallRecord 空间边界墙的提取记录
type WallRecord struct {
	RoomCode string      `json:"room_code"`
	Tag      string      `json:"tag"`
	Name     string      `json:"name"`
	External bool        `json:"external"`
	Layers   []WallLayer `json:"layers,omitempty"`
}
