package ifcmodel

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot 模型快照：一次分析运行的只读构件集合。
// 快照由模型访问协作方从原始 BIM 模型拍平导出（JSON），
// 本服务不解析原始模型文件。
type Snapshot struct {
	Project  string     `json:"project"`
	Elements []*Element `json:"elements"`

	byID map[string]*Element
}

// LoadSnapshot 从 JSON 文件加载模型快照
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	snap.buildIndex()

	return &snap, nil
}

func (s *Snapshot) buildIndex() {
	s.byID = make(map[string]*Element, len(s.Elements))
	for _, e := range s.Elements {
		s.byID[e.ID] = e
	}
}

// ByKind 返回指定类型的所有构件（保持快照顺序）
func (s *Snapshot) ByKind(kind ElementKind) []*Element {
	var out []*Element
	for _, e := range s.Elements {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ByID 按构件 ID 查找；未找到返回 nil
func (s *Snapshot) ByID(id string) *Element {
	if s.byID == nil {
		s.buildIndex()
	}
	return s.byID[id]
}
