package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/geometry"
)

func sampleData() *Data {
	return &Data{
		Project: "Duplex_A",
		Rooms: []*domain.Room{
			{
				Code: "A203", DisplayName: "Bedroom", Width: 3.0, Depth: 4.0, Height: 2.5,
				Windows: []*domain.Window{
					{Tag: "W1", Name: "M_Fixed:1000x1200", Width: 1.0, Height: 1.2, SillHeight: 0.1,
						WallOrientation: geometry.Left, WallLength: 6.0,
						LocationX: 1.2, LocationY: 0.9},
					{Tag: "W3", Name: "M_Fixed:600x600", Width: 0.6, Height: 0.6, SillHeight: 1.2,
						WallOrientation: geometry.Unknown, WallLength: 3.0,
						LocationX: 1.0, LocationY: 1.2},
				},
			},
		},
		Doors: []domain.DoorRecord{
			{RoomCode: "A203", Tag: "D1", Name: "M_Single-Flush:Glass Door",
				Type: "External Glass Door", Height: 2.1, Width: 0.9},
		},
		Walls: []domain.WallRecord{
			{RoomCode: "A203", Tag: "355910", Name: "Basic Wall:Exterior - Brick", External: true,
				Layers: []domain.WallLayer{
					{Material: "Brick", Thickness: 0.108},
					{Material: "Insulation", Thickness: 0.2},
				}},
			{RoomCode: "A203", Tag: "355930", Name: "Basic Roof:Warm Roof"},
		},
		Anomalies: []domain.Anomaly{
			{Kind: domain.AnomalyUnknownOrientation, Subject: "W3",
				Detail: "wall 355920 reference direction matches no cardinal axis"},
		},
	}
}

func TestWrite_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewWriter(zap.NewNop())
	require.NoError(t, w.Write(path, sampleData()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	for _, sheet := range []string{"Assumptions", "Spaces", "Windows", "External Doors", "Walls", "Anomalies"} {
		idx, err := f.GetSheetIndex(sheet)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0, "missing sheet %s", sheet)
	}

	// Spaces 表：一行一个房间
	val, err := f.GetCellValue("Spaces", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Bedroom", val)
	val, _ = f.GetCellValue("Spaces", "B2")
	assert.Equal(t, "A203", val)
	val, _ = f.GetCellValue("Spaces", "C2")
	assert.Equal(t, "3", val)

	// Windows 表：房间分组行 + 窗明细行（名称列在标签列前）
	val, _ = f.GetCellValue("Windows", "A2")
	assert.Equal(t, "Bedroom", val)
	val, _ = f.GetCellValue("Windows", "C3")
	assert.Equal(t, "M_Fixed:1000x1200", val)
	val, _ = f.GetCellValue("Windows", "D3")
	assert.Equal(t, "W1", val)
	val, _ = f.GetCellValue("Windows", "H3")
	assert.Equal(t, "left", val)

	// 朝向未解析的窗带显式标记，而不是被丢弃
	val, _ = f.GetCellValue("Windows", "D4")
	assert.Equal(t, "W3", val)
	val, _ = f.GetCellValue("Windows", "H4")
	assert.Equal(t, "unresolved", val)

	// External Doors 表
	val, _ = f.GetCellValue("External Doors", "E2")
	assert.Equal(t, "External Glass Door", val)

	// Walls 表：动态材料列
	val, _ = f.GetCellValue("Walls", "G1")
	assert.Equal(t, "Material 1", val)
	val, _ = f.GetCellValue("Walls", "I1")
	assert.Equal(t, "Material 2", val)
	val, _ = f.GetCellValue("Walls", "G2")
	assert.Equal(t, "Brick", val)
	val, _ = f.GetCellValue("Walls", "F3")
	assert.Equal(t, "0", val)

	// Anomalies 表
	val, _ = f.GetCellValue("Anomalies", "A2")
	assert.Equal(t, "unknown_orientation", val)
}

func TestWriteRow_MalformedCellIsFatal(t *testing.T) {
	w := NewWriter(zap.NewNop())
	f := excelize.NewFile()
	defer f.Close()

	// 契约：单元格必须是 2 或 3 个字段
	err := w.writeRow(f, "Sheet1", 0, []Cell{{0}})
	assert.ErrorIs(t, err, ErrMalformedCell)

	err = w.writeRow(f, "Sheet1", 0, []Cell{{0, "a", 1, "extra"}})
	assert.ErrorIs(t, err, ErrMalformedCell)

	err = w.writeRow(f, "Sheet1", 0, []Cell{{"not-an-int", "a"}})
	assert.ErrorIs(t, err, ErrMalformedCell)
}
