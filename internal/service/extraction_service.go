package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/assembler"
	"github.com/mdjska/daylight-analysis/internal/config"
	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/extract"
	"github.com/mdjska/daylight-analysis/internal/geometry"
	"github.com/mdjska/daylight-analysis/internal/ifcmodel"
	"github.com/mdjska/daylight-analysis/internal/report"
	"github.com/mdjska/daylight-analysis/internal/repository"
	"github.com/mdjska/daylight-analysis/internal/simulation"
	"github.com/mdjska/daylight-analysis/internal/store"
)

// RunRequest 一次提取运行的输入。路径为空时回退到服务配置。
type RunRequest struct {
	SnapshotPath string `json:"snapshot_path"`
	ReportPath   string `json:"report_path"`
}

// RunResult 一次提取运行的结果汇总
type RunResult struct {
	RunID        string `json:"run_id"`
	Project      string `json:"project"`
	RoomCount    int    `json:"room_count"`
	WindowCount  int    `json:"window_count"`
	AnomalyCount int    `json:"anomaly_count"`
	ReportPath   string `json:"report_path"`

	Rooms     []*domain.Room   `json:"rooms,omitempty"`
	Anomalies []domain.Anomaly `json:"anomalies,omitempty"`

	// Assessments 启用模拟引擎时的逐房间采光评估
	Assessments []simulation.Assessment `json:"assessments,omitempty"`
}

// ExtractionService 提取管道编排：加载快照 → 提取 → 装配 → 持久化 → 报告
type ExtractionService interface {
	Run(ctx context.Context, req *RunRequest) (*RunResult, error)
}

type extractionService struct {
	cfg  *config.Config
	repo repository.RunsRepository
	// cache 与 sim 可为 nil（对应 Redis / 模拟引擎未启用）
	cache  *store.TreeCache
	sim    *simulation.Client
	writer *report.Writer
	logger *zap.Logger
}

// NewExtractionService 创建提取服务
func NewExtractionService(
	cfg *config.Config,
	repo repository.RunsRepository,
	cache *store.TreeCache,
	sim *simulation.Client,
	writer *report.Writer,
	logger *zap.Logger,
) ExtractionService {
	return &extractionService{
		cfg:    cfg,
		repo:   repo,
		cache:  cache,
		sim:    sim,
		writer: writer,
		logger: logger,
	}
}

// Run 执行一次完整的提取运行
func (s *extractionService) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	snapshotPath := req.SnapshotPath
	if snapshotPath == "" {
		snapshotPath = s.cfg.SnapshotPath
	}
	reportPath := req.ReportPath
	if reportPath == "" {
		reportPath = s.cfg.ReportPath
	}

	snap, err := ifcmodel.LoadSnapshot(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load model snapshot: %w", err)
	}

	index := ifcmodel.NewIndex(snap.Elements)
	classifier := geometry.NewOrientationClassifier(s.cfg.Extraction.OrientToleranceDeg)
	locator := extract.NewOpeningLocator(index, classifier,
		s.cfg.Extraction.QueryMargin, s.cfg.Extraction.WallDistanceMax, s.logger)
	extractor := extract.NewExtractor(snap, index, locator, extract.Options{
		SillDefault:   s.cfg.Extraction.SillDefault,
		ExcludedRooms: s.cfg.Extraction.ExcludedRooms,
		QueryMargin:   s.cfg.Extraction.QueryMargin,
	}, s.logger)

	recs, anomalies, err := extractor.Extract(ctx)
	if err != nil {
		return nil, err
	}

	rooms, unmatched := assembler.New(s.logger).Assemble(recs.Rooms, recs.Windows)
	for _, w := range unmatched {
		anomalies = append(anomalies, domain.Anomaly{
			Kind:    domain.AnomalyUnmatchedWindow,
			Subject: "window " + w.Tag,
			Detail:  fmt.Sprintf("space code %q matches no extracted room", w.RoomCode),
		})
	}

	windowCount := 0
	for _, r := range rooms {
		windowCount += len(r.Windows)
	}

	rec := &repository.RunRecord{
		RunSummary: repository.RunSummary{
			RunID:        uuid.NewString(),
			Project:      snap.Project,
			CreatedAt:    time.Now().UTC(),
			RoomCount:    len(rooms),
			WindowCount:  windowCount,
			AnomalyCount: len(anomalies),
		},
		Rooms:     rooms,
		Anomalies: anomalies,
	}
	if err := s.repo.SaveRun(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	// 缓存失败不阻断运行：报告与持久化记录才是交付物
	if s.cache != nil {
		if err := s.cache.PutTree(ctx, rec.RunID, rooms); err != nil {
			s.logger.Warn("failed to cache room tree", zap.Error(err))
		}
	}

	if err := s.writer.Write(reportPath, &report.Data{
		Project:   snap.Project,
		Rooms:     rooms,
		Doors:     recs.Doors,
		Walls:     recs.Walls,
		Anomalies: anomalies,
	}); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	// 可选的采光评估：单个房间的模拟失败不影响已产出的报告
	var assessments []simulation.Assessment
	if s.sim != nil {
		for _, room := range rooms {
			result, err := s.sim.RunGridBased(ctx, room)
			if err != nil {
				s.logger.Warn("daylight simulation failed",
					zap.String("room", room.Code),
					zap.Error(err),
				)
				continue
			}
			a := simulation.EvaluateDaylight(result)
			s.logger.Info("daylight assessment",
				zap.String("room", a.RoomCode),
				zap.Float64("pass_fraction", a.PassFraction),
				zap.Bool("passed", a.Passed),
			)
			assessments = append(assessments, a)
		}
	}

	s.logger.Info("extraction run complete",
		zap.String("run_id", rec.RunID),
		zap.String("project", snap.Project),
		zap.Int("rooms", len(rooms)),
		zap.Int("windows", windowCount),
		zap.Int("anomalies", len(anomalies)),
		zap.String("report", reportPath),
	)

	return &RunResult{
		RunID:        rec.RunID,
		Project:      snap.Project,
		RoomCount:    len(rooms),
		WindowCount:  windowCount,
		AnomalyCount: len(anomalies),
		ReportPath:   reportPath,
		Rooms:        rooms,
		Anomalies:    anomalies,
		Assessments:  assessments,
	}, nil
}
