package assembler

import (
	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// Assembler 将平面提取记录装配为 房间→窗 嵌套树（规范输出结构）。
// 纯数据重组，不做几何计算；这里是上游所有修正值汇入
// 模拟/报告消费模型的集成点。
type Assembler struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Assemble 按空间编号把窗记录归并到房间。
// 窗按输入顺序追加（稳定，不按几何条件排序）。
// 返回值第二项为未匹配任何房间的窗记录：计入异常汇总，不静默丢弃。
func (a *Assembler) Assemble(
	rooms []domain.RoomRecord,
	windows []domain.WindowRecord,
) ([]*domain.Room, []domain.WindowRecord) {
	// 先按空间编号建桶，避免逐房间线性扫描
	byRoom := make(map[string][]domain.WindowRecord)
	for _, w := range windows {
		byRoom[w.RoomCode] = append(byRoom[w.RoomCode], w)
	}

	out := make([]*domain.Room, 0, len(rooms))
	for _, r := range rooms {
		room := &domain.Room{
			Code:        r.Code,
			DisplayName: r.Name,
			Width:       r.Width,
			Depth:       r.Depth,
			Height:      r.Height,
		}
		for _, w := range byRoom[r.Code] {
			room.Windows = append(room.Windows, &domain.Window{
				Tag:             w.Tag,
				Name:            w.Name,
				Width:           w.Width,
				Height:          w.Height,
				SillHeight:      w.SillHeight,
				WallOrientation: w.WallOrientation,
				WallLength:      w.WallLength,
				LocationX:       w.LocationX,
				LocationY:       w.LocationY,
				OutOfRange:      w.OutOfRange,
			})
		}
		delete(byRoom, r.Code)
		out = append(out, room)
	}

	// 剩余桶里的窗没有归属房间
	var unmatched []domain.WindowRecord
	for _, w := range windows {
		if _, ok := byRoom[w.RoomCode]; ok {
			unmatched = append(unmatched, w)
		}
	}
	if len(unmatched) > 0 {
		a.logger.Warn("windows matched no room", zap.Int("count", len(unmatched)))
	}

	return out, unmatched
}
