package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/geometry"
	"github.com/mdjska/daylight-analysis/internal/ifcmodel"
)

// Records 一次提取运行产出的全部平面记录
type Records struct {
	Rooms   []domain.RoomRecord
	Windows []domain.WindowRecord
	Doors   []domain.DoorRecord
	Walls   []domain.WallRecord
}

// Options 提取配置
type Options struct {
	// SillDefault 缺失窗台高度的默认值（米）
	SillDefault float64
	// ExcludedRooms 不参与分析的空间类别（按描述性名称匹配）
	ExcludedRooms []string
	// QueryMargin 空间索引查询时包围盒的扩展边距
	QueryMargin float64
}

// Extractor 遍历快照中的空间，产出房间/窗/门/墙的平面记录。
// 单线程批处理：可恢复的数据问题记为异常继续执行，不中断整次运行。
type Extractor struct {
	snap     *ifcmodel.Snapshot
	index    ifcmodel.SpatialIndex
	locator  *OpeningLocator
	opts     Options
	excluded map[string]struct{}
	logger   *zap.Logger
}

// NewExtractor 创建 Extractor
func NewExtractor(
	snap *ifcmodel.Snapshot,
	index ifcmodel.SpatialIndex,
	locator *OpeningLocator,
	opts Options,
	logger *zap.Logger,
) *Extractor {
	excluded := make(map[string]struct{}, len(opts.ExcludedRooms))
	for _, name := range opts.ExcludedRooms {
		excluded[name] = struct{}{}
	}
	return &Extractor{
		snap:     snap,
		index:    index,
		locator:  locator,
		opts:     opts,
		excluded: excluded,
		logger:   logger,
	}
}

// Extract 执行一次完整提取
func (e *Extractor) Extract(ctx context.Context) (*Records, []domain.Anomaly, error) {
	recs := &Records{}
	var anomalies []domain.Anomaly

	for _, space := range e.snap.ByKind(ifcmodel.KindSpace) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if _, skip := e.excluded[space.Name]; skip {
			continue
		}

		room, roomAnoms := e.roomRecord(space)
		recs.Rooms = append(recs.Rooms, room)
		anomalies = append(anomalies, roomAnoms...)

		// 窗和门通过扩展包围盒查询获取（空间边界关系不一定包含全部窗）
		for _, obj := range e.index.Within(space.Box.Expand(e.opts.QueryMargin)) {
			switch obj.Kind {
			case ifcmodel.KindWindow:
				win, winAnoms, ok := e.windowRecord(space, room, obj)
				anomalies = append(anomalies, winAnoms...)
				if ok {
					recs.Windows = append(recs.Windows, win)
				}
			case ifcmodel.KindDoor:
				if door, ok := e.doorRecord(space, obj); ok {
					recs.Doors = append(recs.Doors, door)
				}
			}
		}

		// 墙来自空间的边界关系
		for _, wallID := range space.Boundaries {
			wall := e.snap.ByID(wallID)
			if wall == nil || wall.Kind != ifcmodel.KindWall {
				continue
			}
			recs.Walls = append(recs.Walls, e.wallRecord(space, wall))
		}
	}

	e.logger.Info("extraction pass complete",
		zap.Int("rooms", len(recs.Rooms)),
		zap.Int("windows", len(recs.Windows)),
		zap.Int("doors", len(recs.Doors)),
		zap.Int("walls", len(recs.Walls)),
		zap.Int("anomalies", len(anomalies)),
	)

	return recs, anomalies, nil
}

func (e *Extractor) roomRecord(space *ifcmodel.Element) (domain.RoomRecord, []domain.Anomaly) {
	var anomalies []domain.Anomaly
	rec := domain.RoomRecord{Code: space.Code, Name: space.Name}

	switch {
	case space.Profile == nil:
		rec.Degenerate = true
		anomalies = append(anomalies, domain.Anomaly{
			Kind:    domain.AnomalyDegenerateProfile,
			Subject: space.Code,
			Detail:  "space has no plan profile",
		})
	case space.Profile.Kind == ifcmodel.ProfileRectangle:
		b := geometry.RectBounds(space.Profile.XDim, space.Profile.YDim)
		rec.Width, rec.Depth = b.Width, b.Depth
	default:
		b, ok := geometry.PolygonBounds(space.Profile.Points)
		rec.Width, rec.Depth = b.Width, b.Depth
		if !ok {
			rec.Degenerate = true
			anomalies = append(anomalies, domain.Anomaly{
				Kind:    domain.AnomalyDegenerateProfile,
				Subject: space.Code,
				Detail:  fmt.Sprintf("polygon profile has %d vertices", len(space.Profile.Points)),
			})
		}
	}

	if h, ok := space.PropFloat(ifcmodel.PsetDimensions, ifcmodel.PropUnboundedHeight); ok {
		rec.Height = geometry.Round3(h)
	} else {
		anomalies = append(anomalies, domain.Anomaly{
			Kind:    domain.AnomalyMissingDimension,
			Subject: space.Code,
			Detail:  "space height property missing",
		})
	}

	return rec, anomalies
}

func (e *Extractor) windowRecord(
	space *ifcmodel.Element,
	room domain.RoomRecord,
	win *ifcmodel.Element,
) (domain.WindowRecord, []domain.Anomaly, bool) {
	var anomalies []domain.Anomaly

	width, wOK := win.PropFloat(ifcmodel.PsetTypeDimensions, ifcmodel.PropWidth)
	height, hOK := win.PropFloat(ifcmodel.PsetTypeDimensions, ifcmodel.PropHeight)
	if !wOK || !hOK {
		anomalies = append(anomalies, domain.Anomaly{
			Kind:    domain.AnomalyMissingDimension,
			Subject: win.Tag,
			Detail:  "window dimension properties missing",
		})
	}

	// 窗台高度缺失时用配置默认值补齐，下游不会看到未定义数值
	sill, ok := win.PropFloat(ifcmodel.PsetConstraints, ifcmodel.PropSillHeight)
	if !ok {
		sill = e.opts.SillDefault
	}

	fix, err := e.locator.Locate(win)
	if err != nil {
		if errors.Is(err, ErrNoWall) {
			// 开口不进入按墙归类的输出，但缺失必须可见
			e.logger.Warn("opening has no supporting wall",
				zap.String("window", win.Tag),
				zap.String("space", space.Code),
			)
			anomalies = append(anomalies, domain.Anomaly{
				Kind:    domain.AnomalyNoSupportingWall,
				Subject: win.Tag,
				Detail:  fmt.Sprintf("no wall within query volume of window in space %s", space.Code),
			})
		}
		return domain.WindowRecord{}, anomalies, false
	}

	if fix.Orientation == geometry.Unknown {
		anomalies = append(anomalies, domain.Anomaly{
			Kind:    domain.AnomalyUnknownOrientation,
			Subject: win.Tag,
			Detail:  fmt.Sprintf("wall %s reference direction matches no cardinal axis", fix.Wall.Tag),
		})
	}

	// 原始位置取局部放置点的轴 0 和轴 2
	loc := win.Placement.Location
	placement := geometry.CorrectPlacement(loc.X, loc.Z, fix.Length, width, room.Width, room.Depth)

	rec := domain.WindowRecord{
		RoomCode:        space.Code,
		Tag:             win.Tag,
		Name:            win.Name,
		Width:           geometry.Round3(width),
		Height:          geometry.Round3(height),
		SillHeight:      geometry.Round3(sill),
		WallTag:         fix.Wall.Tag,
		WallOrientation: fix.Orientation,
		WallLength:      fix.Length,
		LocationX:       placement.X,
		LocationY:       placement.Y,
		Frame:           placement.Frame,
	}

	if !placement.WithinWall(fix.Length) {
		rec.OutOfRange = true
		anomalies = append(anomalies, domain.Anomaly{
			Kind:    domain.AnomalyOutOfRangePlacement,
			Subject: win.Tag,
			Detail: fmt.Sprintf("corrected locationX %.3f outside wall span [0, %.3f]",
				placement.X, fix.Length),
		})
	}

	return rec, anomalies, true
}

func (e *Extractor) doorRecord(space *ifcmodel.Element, door *ifcmodel.Element) (domain.DoorRecord, bool) {
	// 只保留外部门；IsExternal 缺失视为内门
	if !door.PropBoolAny(ifcmodel.PropIsExternal) {
		return domain.DoorRecord{}, false
	}

	doorType := "External No-glass Door"
	if strings.Contains(door.Name, "Glass") {
		doorType = "External Glass Door"
	}

	height, _ := door.PropFloat(ifcmodel.PsetTypeDimensions, ifcmodel.PropHeight)
	width, _ := door.PropFloat(ifcmodel.PsetTypeDimensions, ifcmodel.PropWidth)

	return domain.DoorRecord{
		RoomCode: space.Code,
		Tag:      door.Tag,
		Name:     door.Name,
		Type:     doorType,
		Height:   geometry.Round3(height),
		Width:    geometry.Round3(width),
	}, true
}

func (e *Extractor) wallRecord(space *ifcmodel.Element, wall *ifcmodel.Element) domain.WallRecord {
	rec := domain.WallRecord{
		RoomCode: space.Code,
		Tag:      wall.Tag,
		Name:     wall.Name,
		External: wall.PropBoolAny(ifcmodel.PropIsExternal),
	}

	// 屋面构件不做材料层分解
	if !strings.Contains(wall.Name, "Roof") {
		for _, layer := range wall.Materials {
			rec.Layers = append(rec.Layers, domain.WallLayer{
				Material:  layer.Name,
				Thickness: layer.Thickness,
			})
		}
	}

	return rec
}
