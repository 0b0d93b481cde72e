package ifcmodel

import (
	"github.com/mdjska/daylight-analysis/internal/geometry"
)

// SpatialIndex 空间索引：查询与给定三维体积相交的构件
type SpatialIndex interface {
	Within(box geometry.Box3) []*Element
}

// boxIndex 基于构件包围盒的线性扫描索引。
// 快照规模是单栋建筑（几十到几百个构件），线性 AABB 相交已经足够；
// 索引在分析前构建一次，之后只读。
type boxIndex struct {
	elements []*Element
}

// NewIndex 从构件集合构建空间索引
func NewIndex(elements []*Element) SpatialIndex {
	return &boxIndex{elements: elements}
}

func (i *boxIndex) Within(box geometry.Box3) []*Element {
	var out []*Element
	for _, e := range i.elements {
		if e.Box.Overlaps(box) {
			out = append(out, e)
		}
	}
	return out
}
