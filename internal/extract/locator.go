package extract

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/geometry"
	"github.com/mdjska/daylight-analysis/internal/ifcmodel"
)

// ErrNoWall 空间查询未返回任何可用的墙体构件
var ErrNoWall = errors.New("no supporting wall found")

// WallFix 开口定位结果：承载墙及其长度与朝向
type WallFix struct {
	Wall        *ifcmodel.Element
	Length      float64
	Orientation geometry.Orientation
	// Distance 开口中心到墙轴线的垂直距离
	Distance float64
}

// OpeningLocator 在空间索引中定位窗/门开口的承载墙。
// 扩展包围盒查询可能返回多面候选墙（相邻墙、对面墙），
// 取开口中心垂直距离最近的一面；超出 maxDistance 的候选不参与，
// 没有合格候选时返回 ErrNoWall。
type OpeningLocator struct {
	index       ifcmodel.SpatialIndex
	classifier  *geometry.OrientationClassifier
	margin      float64
	maxDistance float64
	logger      *zap.Logger
}

// NewOpeningLocator 创建 OpeningLocator
// margin: 查询时开口包围盒的扩展边距（默认 0.5）
// maxDistance: 候选墙到开口中心的最大垂直距离（默认 1.0）
func NewOpeningLocator(
	index ifcmodel.SpatialIndex,
	classifier *geometry.OrientationClassifier,
	margin float64,
	maxDistance float64,
	logger *zap.Logger,
) *OpeningLocator {
	return &OpeningLocator{
		index:       index,
		classifier:  classifier,
		margin:      margin,
		maxDistance: maxDistance,
		logger:      logger,
	}
}

// Locate 定位开口的承载墙
func (l *OpeningLocator) Locate(opening *ifcmodel.Element) (*WallFix, error) {
	center := opening.Box.Center()
	centroid := geometry.Point2{X: center.X, Y: center.Y}

	var best *WallFix
	for _, cand := range l.index.Within(opening.Box.Expand(l.margin)) {
		if cand.Kind != ifcmodel.KindWall {
			continue
		}

		var dist float64
		if cand.Axis != nil {
			dist = cand.Axis.DistanceTo(centroid)
		} else {
			// 无轴线数据时退化为盒心平面距离
			c := cand.Box.Center()
			dist = math.Hypot(centroid.X-c.X, centroid.Y-c.Y)
		}
		if dist > l.maxDistance {
			continue
		}
		if best == nil || dist < best.Distance {
			best = &WallFix{Wall: cand, Distance: dist}
		}
	}

	if best == nil {
		return nil, ErrNoWall
	}

	length, ok := best.Wall.PropFloat(ifcmodel.PsetDimensions, ifcmodel.PropLength)
	if !ok && best.Wall.Axis != nil {
		length = best.Wall.Axis.Length()
	}
	best.Length = length
	best.Orientation = l.classifier.Classify(best.Wall.Placement.RefDirection)

	l.logger.Debug("located supporting wall",
		zap.String("opening", opening.Tag),
		zap.String("wall", best.Wall.Tag),
		zap.Float64("distance", best.Distance),
		zap.String("orientation", string(best.Orientation)),
	)

	return best, nil
}
