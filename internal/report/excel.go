package report

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/geometry"
)

// ErrMalformedCell 行单元格形状违反提取层与报告层之间的数据契约。
// 这是结构性契约破坏：整次运行立即终止，不降级继续。
var ErrMalformedCell = errors.New("report cell must have 2 or 3 fields (col, value[, style])")

// Cell 一个单元格描述：(列号, 值) 或 (列号, 值, 样式ID)
type Cell []any

// Data 报告输入：装配后的房间树加上按墙归类的门/墙记录与异常汇总
type Data struct {
	Project   string
	Rooms     []*domain.Room
	Doors     []domain.DoorRecord
	Walls     []domain.WallRecord
	Anomalies []domain.Anomaly
}

// Writer Excel 工作簿报告输出
type Writer struct {
	logger *zap.Logger
}

func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write 生成工作簿并保存到 path
func (w *Writer) Write(path string, data *Data) error {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#7E7E7E"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create header style: %w", err)
	}
	groupStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create group style: %w", err)
	}

	roomNames := make(map[string]string, len(data.Rooms))
	for _, r := range data.Rooms {
		roomNames[r.Code] = r.DisplayName
	}

	sheets := []struct {
		name  string
		build func(sheet string, header, group int) error
	}{
		{"Assumptions", func(s string, h, g int) error { return w.writeAssumptions(f, s, h, g) }},
		{"Spaces", func(s string, h, g int) error { return w.writeSpaces(f, s, h, g, data.Rooms) }},
		{"Windows", func(s string, h, g int) error { return w.writeWindows(f, s, h, g, data.Rooms) }},
		{"External Doors", func(s string, h, g int) error {
			return w.writeDoors(f, s, h, g, data.Doors, roomNames)
		}},
		{"Walls", func(s string, h, g int) error {
			return w.writeWalls(f, s, h, g, data.Walls, roomNames)
		}},
		{"Anomalies", func(s string, h, g int) error {
			return w.writeAnomalies(f, s, h, data.Anomalies)
		}},
	}

	for i, sheet := range sheets {
		idx, err := f.NewSheet(sheet.name)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := sheet.build(sheet.name, headerStyle, groupStyle); err != nil {
			f.Close()
			return err
		}
	}
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		f.Close()
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}

	w.logger.Info("report workbook written",
		zap.String("path", path),
		zap.Int("rooms", len(data.Rooms)),
		zap.Int("anomalies", len(data.Anomalies)),
	)
	return nil
}

// writeRow 写出一行单元格，校验 2/3 字段契约
func (w *Writer) writeRow(f *excelize.File, sheet string, row int, cells []Cell) error {
	for _, cell := range cells {
		switch len(cell) {
		case 2:
			col, ok := cell[0].(int)
			if !ok {
				return fmt.Errorf("%w: column index is %T", ErrMalformedCell, cell[0])
			}
			name, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, name, cell[1]); err != nil {
				return err
			}
		case 3:
			col, ok := cell[0].(int)
			if !ok {
				return fmt.Errorf("%w: column index is %T", ErrMalformedCell, cell[0])
			}
			style, ok := cell[2].(int)
			if !ok {
				return fmt.Errorf("%w: style id is %T", ErrMalformedCell, cell[2])
			}
			name, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, name, cell[1]); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, name, name, style); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: got %d fields", ErrMalformedCell, len(cell))
		}
	}
	return nil
}

func headerCells(style int, titles ...string) []Cell {
	cells := make([]Cell, 0, len(titles))
	for i, t := range titles {
		cells = append(cells, Cell{i, t, style})
	}
	return cells
}

func (w *Writer) writeAssumptions(f *excelize.File, sheet string, header, group int) error {
	rows := [][]Cell{
		{{0, "Assumptions", header}},
		{{0, "Thermal conductivity", group}},
		{{1, "Windows"}, {2, "1.2 W/m²K"}},
		{{1, "Glass Doors"}, {2, "1.5 W/m²K"}},
		{{1, "Non-glass External Doors"}, {2, "1.4 W/m²K"}},
		{{1, "External Walls"}, {2, "0.09 W/m²K"}},
		{{0, "Spaces with non-rectangular floor profile are analyzed based on their bounding box", group}},
	}
	for i, cells := range rows {
		if err := w.writeRow(f, sheet, i, cells); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "E", 15)
}

func (w *Writer) writeSpaces(f *excelize.File, sheet string, header, group int, rooms []*domain.Room) error {
	if err := w.writeRow(f, sheet, 0, headerCells(header,
		"Space Name", "Space Code", "X Dimension", "Y Dimension", "Height")); err != nil {
		return err
	}
	for i, r := range rooms {
		cells := []Cell{
			{0, r.DisplayName},
			{1, r.Code},
			{2, r.Width},
			{3, r.Depth},
			{4, r.Height},
		}
		if err := w.writeRow(f, sheet, i+1, cells); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "E", 15)
}

func (w *Writer) writeWindows(f *excelize.File, sheet string, header, group int, rooms []*domain.Room) error {
	if err := w.writeRow(f, sheet, 0, headerCells(header,
		"Space Name", "Space Code", "Window Name", "Window Tag", "Height",
		"Width", "Sill Height", "Wall", "Wall Length", "Location X", "Location Y")); err != nil {
		return err
	}

	row := 1
	for _, r := range rooms {
		if err := w.writeRow(f, sheet, row, []Cell{
			{0, r.DisplayName, group},
			{1, r.Code, group},
		}); err != nil {
			return err
		}
		row++

		for _, win := range r.Windows {
			// 朝向未解析的窗仍然出现在报告中，带显式标记
			wall := string(win.WallOrientation)
			if win.WallOrientation == geometry.Unknown {
				wall = "unresolved"
			}
			cells := []Cell{
				{2, win.Name},
				{3, win.Tag},
				{4, win.Height},
				{5, win.Width},
				{6, win.SillHeight},
				{7, wall},
				{8, win.WallLength},
				{9, win.LocationX},
				{10, win.LocationY},
			}
			if err := w.writeRow(f, sheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	if err := f.SetColWidth(sheet, "A", "K", 15); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 30)
}

func (w *Writer) writeDoors(
	f *excelize.File, sheet string, header, group int,
	doors []domain.DoorRecord, roomNames map[string]string,
) error {
	if err := w.writeRow(f, sheet, 0, headerCells(header,
		"Space Name", "Space Code", "External Door Name", "Door Tag",
		"Type", "Height", "Width")); err != nil {
		return err
	}
	for i, d := range doors {
		cells := []Cell{
			{0, roomNames[d.RoomCode]},
			{1, d.RoomCode},
			{2, d.Name},
			{3, d.Tag},
			{4, d.Type},
			{5, d.Height},
			{6, d.Width},
		}
		if err := w.writeRow(f, sheet, i+1, cells); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "G", 15); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 40)
}

func (w *Writer) writeWalls(
	f *excelize.File, sheet string, header, group int,
	walls []domain.WallRecord, roomNames map[string]string,
) error {
	// 材料列对按最大层数动态扩展
	mostLayers := 0
	for _, wall := range walls {
		if len(wall.Layers) > mostLayers {
			mostLayers = len(wall.Layers)
		}
	}

	titles := []string{"Space Name", "Space Code", "Wall Name", "Wall Tag", "Is external?", "# layers"}
	for i := 1; i <= mostLayers; i++ {
		titles = append(titles, fmt.Sprintf("Material %d", i), "Thickness")
	}
	if err := w.writeRow(f, sheet, 0, headerCells(header, titles...)); err != nil {
		return err
	}

	for i, wall := range walls {
		cells := []Cell{
			{0, roomNames[wall.RoomCode]},
			{1, wall.RoomCode},
			{2, wall.Name},
			{3, wall.Tag},
			{4, wall.External},
			{5, len(wall.Layers)},
		}
		col := 6
		for _, layer := range wall.Layers {
			cells = append(cells, Cell{col, layer.Material}, Cell{col + 1, layer.Thickness})
			col += 2
		}
		if err := w.writeRow(f, sheet, i+1, cells); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "F", 15); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 45)
}

func (w *Writer) writeAnomalies(f *excelize.File, sheet string, header int, anomalies []domain.Anomaly) error {
	if err := w.writeRow(f, sheet, 0, headerCells(header, "Kind", "Subject", "Detail")); err != nil {
		return err
	}
	for i, a := range anomalies {
		cells := []Cell{
			{0, string(a.Kind)},
			{1, a.Subject},
			{2, a.Detail},
		}
		if err := w.writeRow(f, sheet, i+1, cells); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 22); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 60)
}
