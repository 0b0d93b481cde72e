package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/geometry"
)

func TestAssemble_NestsWindowsByRoomCode(t *testing.T) {
	rooms := []domain.RoomRecord{
		{Code: "A203", Name: "Bedroom", Width: 3.0, Depth: 4.0, Height: 2.5},
	}
	windows := []domain.WindowRecord{
		{RoomCode: "A203", Tag: "W1", Name: "M_Fixed:1000x1200", Width: 1.0, Height: 1.2,
			SillHeight: 0.1, WallOrientation: geometry.Left, WallLength: 6.0,
			LocationX: 1.2, LocationY: 0.9},
		{RoomCode: "B101", Tag: "W2"},
	}

	a := New(zap.NewNop())
	tree, unmatched := a.Assemble(rooms, windows)

	require.Len(t, tree, 1)
	room := tree[0]
	assert.Equal(t, "A203", room.Code)
	assert.Equal(t, "Bedroom", room.DisplayName)

	// A203 恰好有一扇窗；W2 未匹配并被计数
	require.Len(t, room.Windows, 1)
	assert.Equal(t, "W1", room.Windows[0].Tag)
	assert.Equal(t, "M_Fixed:1000x1200", room.Windows[0].Name)
	assert.Equal(t, geometry.Left, room.Windows[0].WallOrientation)
	assert.Equal(t, 0.1, room.Windows[0].SillHeight)

	require.Len(t, unmatched, 1)
	assert.Equal(t, "W2", unmatched[0].Tag)
}

func TestAssemble_PreservesWindowOrder(t *testing.T) {
	rooms := []domain.RoomRecord{{Code: "A203", Name: "Bedroom"}}
	windows := []domain.WindowRecord{
		{RoomCode: "A203", Tag: "W3"},
		{RoomCode: "A203", Tag: "W1"},
		{RoomCode: "A203", Tag: "W2"},
	}

	tree, unmatched := New(zap.NewNop()).Assemble(rooms, windows)
	require.Empty(t, unmatched)
	require.Len(t, tree, 1)

	var tags []string
	for _, w := range tree[0].Windows {
		tags = append(tags, w.Tag)
	}
	// 输入顺序稳定保留，不按几何条件排序
	assert.Equal(t, []string{"W3", "W1", "W2"}, tags)
}

func TestAssemble_EmptyInputs(t *testing.T) {
	tree, unmatched := New(zap.NewNop()).Assemble(nil, nil)
	assert.Empty(t, tree)
	assert.Empty(t, unmatched)

	// 有房间无窗：窗列表为空的房间仍然产出
	tree, unmatched = New(zap.NewNop()).Assemble(
		[]domain.RoomRecord{{Code: "A203", Name: "Bedroom"}}, nil)
	require.Len(t, tree, 1)
	assert.Empty(t, tree[0].Windows)
	assert.Empty(t, unmatched)
}
