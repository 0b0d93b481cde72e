package ifcmodel

import (
	"github.com/mdjska/daylight-analysis/internal/geometry"
)

// ElementKind 建筑构件类型
type ElementKind string

const (
	KindSpace  ElementKind = "space"
	KindWall   ElementKind = "wall"
	KindWindow ElementKind = "window"
	KindDoor   ElementKind = "door"
)

// 常用属性集名称（来自 Revit 导出的 IFC 模型）
const (
	PsetTypeDimensions = "PSet_Revit_Type_Dimensions"
	PsetDimensions     = "PSet_Revit_Dimensions"
	PsetConstraints    = "PSet_Revit_Constraints"
)

// 常用属性名
const (
	PropHeight          = "Height"
	PropWidth           = "Width"
	PropLength          = "Length"
	PropSillHeight      = "Sill Height"
	PropUnboundedHeight = "Unbounded Height"
	PropIsExternal      = "IsExternal"
)

// ProfileKind 空间平面轮廓类型
type ProfileKind string

const (
	ProfileRectangle ProfileKind = "rectangle"
	ProfilePolygon   ProfileKind = "polygon"
)

// Profile 空间平面轮廓：矩形（直接给定尺寸）或任意闭合多边形（顶点序列）
type Profile struct {
	Kind   ProfileKind       `json:"kind"`
	XDim   float64           `json:"x_dim,omitempty"`
	YDim   float64           `json:"y_dim,omitempty"`
	Points []geometry.Point2 `json:"points,omitempty"`
}

// MaterialLayer 墙体材料层
type MaterialLayer struct {
	Name      string  `json:"name"`
	Thickness float64 `json:"thickness"`
}

// LocalPlacement 构件的局部放置：位置点与参考方向
type LocalPlacement struct {
	// Location 局部放置变换的第一个点；窗洞位置取轴 0 和轴 2
	Location geometry.Point3 `json:"location"`
	// RefDirection 参考方向；模型缺省时为 nil（等价于默认放置）
	RefDirection *geometry.Vec3 `json:"ref_direction,omitempty"`
}

// Element 从模型快照读出的单个建筑构件（只读）
type Element struct {
	ID   string      `json:"id"`
	Kind ElementKind `json:"kind"`
	// Name 描述性名称；空间为 LongName（如 "Bedroom"），墙/窗/门为类型名
	Name string `json:"name"`
	// Code 空间的唯一编号（如 "A203"）；其他构件为空
	Code string `json:"code,omitempty"`
	// Tag 构件标签
	Tag string `json:"tag,omitempty"`

	Box       geometry.Box3  `json:"box"`
	Placement LocalPlacement `json:"placement"`

	// Profile 仅空间有：平面轮廓
	Profile *Profile `json:"profile,omitempty"`
	// Axis 仅墙体有：平面轴线
	Axis *geometry.Segment2 `json:"axis,omitempty"`
	// Materials 仅墙体有：材料层（外到内）
	Materials []MaterialLayer `json:"materials,omitempty"`
	// Boundaries 仅空间有：边界墙体的构件 ID
	Boundaries []string `json:"boundaries,omitempty"`

	// PropertySets 属性集：集合名 -> 属性名 -> 值
	PropertySets map[string]map[string]any `json:"property_sets,omitempty"`
}

// PropFloat 读取数值属性；缺失或类型不符时 ok=false
func (e *Element) PropFloat(set, name string) (float64, bool) {
	props, ok := e.PropertySets[set]
	if !ok {
		return 0, false
	}
	switch v := props[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// PropBool 读取布尔属性；缺失视为 false
func (e *Element) PropBool(set, name string) bool {
	props, ok := e.PropertySets[set]
	if !ok {
		return false
	}
	b, _ := props[name].(bool)
	return b
}

// PropBoolAny 在所有属性集中查找布尔属性（如 IsExternal 可能挂在
// 不同名称的属性集下）；任一集合中为 true 即返回 true，缺失视为 false
func (e *Element) PropBoolAny(name string) bool {
	for _, props := range e.PropertySets {
		if b, ok := props[name].(bool); ok && b {
			return true
		}
	}
	return false
}
