package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

const (
	runTreeKeyFmt = "daylight:run:%s:tree"
	latestRunKey  = "daylight:latest"

	treeTTL = 24 * time.Hour
)

// TreeCache 缓存最近一次提取得到的房间树，供下游模拟任务直接读取
type TreeCache struct {
	kv KV
}

func NewTreeCache(kv KV) *TreeCache {
	return &TreeCache{kv: kv}
}

// PutTree 写入房间树并把该运行标记为最新
func (c *TreeCache) PutTree(ctx context.Context, runID string, rooms []*domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("failed to marshal room tree: %w", err)
	}
	key := fmt.Sprintf(runTreeKeyFmt, runID)
	if err := c.kv.Set(ctx, key, string(payload), treeTTL); err != nil {
		return fmt.Errorf("failed to cache room tree: %w", err)
	}
	if err := c.kv.Set(ctx, latestRunKey, runID, treeTTL); err != nil {
		return fmt.Errorf("failed to update latest run marker: %w", err)
	}
	return nil
}

// GetTree 按运行 ID 读取房间树
func (c *TreeCache) GetTree(ctx context.Context, runID string) ([]*domain.Room, error) {
	val, err := c.kv.Get(ctx, fmt.Sprintf(runTreeKeyFmt, runID))
	if err != nil {
		return nil, err
	}
	var rooms []*domain.Room
	if err := json.Unmarshal([]byte(val), &rooms); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room tree: %w", err)
	}
	return rooms, nil
}

// CachedRuns 列出当前仍在缓存中的运行 ID
func (c *TreeCache) CachedRuns(ctx context.Context) ([]string, error) {
	keys, err := c.kv.ScanKeys(ctx, "daylight:run:*:tree")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		id := strings.TrimSuffix(strings.TrimPrefix(k, "daylight:run:"), ":tree")
		if id != "" && id != k {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// LatestTree 读取最新一次运行的房间树
func (c *TreeCache) LatestTree(ctx context.Context) (string, []*domain.Room, error) {
	runID, err := c.kv.Get(ctx, latestRunKey)
	if err != nil {
		return "", nil, err
	}
	rooms, err := c.GetTree(ctx, runID)
	if err != nil {
		return "", nil, err
	}
	return runID, rooms, nil
}
