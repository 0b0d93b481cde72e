package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// ErrNotFound 指定的提取运行不存在
var ErrNotFound = errors.New("extraction run not found")

// RunSummary 一次提取运行的概要
type RunSummary struct {
	RunID        string    `json:"run_id"`
	Project      string    `json:"project"`
	CreatedAt    time.Time `json:"created_at"`
	RoomCount    int       `json:"room_count"`
	WindowCount  int       `json:"window_count"`
	AnomalyCount int       `json:"anomaly_count"`
}

// RunRecord 一次提取运行的完整持久化记录
type RunRecord struct {
	RunSummary
	Rooms     []*domain.Room   `json:"rooms"`
	Anomalies []domain.Anomaly `json:"anomalies"`
}

// RunsRepository 提取运行的持久化接口
type RunsRepository interface {
	SaveRun(ctx context.Context, rec *RunRecord) error
	GetRun(ctx context.Context, runID string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}
