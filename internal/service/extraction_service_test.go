package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/config"
	"github.com/mdjska/daylight-analysis/internal/geometry"
	"github.com/mdjska/daylight-analysis/internal/ifcmodel"
	"github.com/mdjska/daylight-analysis/internal/report"
	"github.com/mdjska/daylight-analysis/internal/repository"
	"github.com/mdjska/daylight-analysis/internal/simulation"
	"github.com/mdjska/daylight-analysis/internal/store"
)

// writeSnapshot 把一个最小快照（A203 卧室 + 西墙 + 一扇窗）序列化到临时文件
func writeSnapshot(t *testing.T) string {
	t.Helper()

	snap := &ifcmodel.Snapshot{
		Project: "Duplex_A",
		Elements: []*ifcmodel.Element{
			{
				ID: "sp-a203", Kind: ifcmodel.KindSpace, Name: "Bedroom", Code: "A203",
				Box: geometry.Box3{
					Min: geometry.Point3{X: 0, Y: 0, Z: 0},
					Max: geometry.Point3{X: 3, Y: 4, Z: 2.5},
				},
				Profile: &ifcmodel.Profile{Kind: ifcmodel.ProfileRectangle, XDim: 3.0, YDim: 4.0},
				PropertySets: map[string]map[string]any{
					ifcmodel.PsetDimensions: {ifcmodel.PropUnboundedHeight: 2.5},
				},
				Boundaries: []string{"wall-west"},
			},
			{
				ID: "wall-west", Kind: ifcmodel.KindWall, Tag: "355910",
				Name: "Basic Wall:Exterior - Brick",
				Box: geometry.Box3{
					Min: geometry.Point3{X: -0.1, Y: -1, Z: 0},
					Max: geometry.Point3{X: 0.1, Y: 5, Z: 2.7},
				},
				Axis: &geometry.Segment2{
					Start: geometry.Point2{X: 0, Y: -1},
					End:   geometry.Point2{X: 0, Y: 5},
				},
				Placement: ifcmodel.LocalPlacement{
					RefDirection: &geometry.Vec3{X: 0, Y: 1, Z: 0},
				},
				PropertySets: map[string]map[string]any{
					ifcmodel.PsetDimensions: {ifcmodel.PropLength: 6.0},
					"PSet_Wall_Common":      {ifcmodel.PropIsExternal: true},
				},
				Materials: []ifcmodel.MaterialLayer{{Name: "Brick", Thickness: 0.108}},
			},
			{
				ID: "win-1", Kind: ifcmodel.KindWindow, Tag: "W1",
				Name: "M_Fixed:1000x1200",
				Box: geometry.Box3{
					Min: geometry.Point3{X: -0.05, Y: 1.0, Z: 1.0},
					Max: geometry.Point3{X: 0.05, Y: 2.0, Z: 2.2},
				},
				Placement: ifcmodel.LocalPlacement{
					Location: geometry.Point3{X: 1.2, Y: 0, Z: 0.9},
				},
				PropertySets: map[string]map[string]any{
					ifcmodel.PsetTypeDimensions: {ifcmodel.PropWidth: 1.0, ifcmodel.PropHeight: 1.2},
				},
			},
		},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Extraction = config.ExtractionConfig{
		SillDefault:        0.1,
		ExcludedRooms:      []string{"Hallway", "Roof"},
		OrientToleranceDeg: 5,
		QueryMargin:        0.5,
		WallDistanceMax:    1.0,
	}
	return cfg
}

func TestExtractionService_Run(t *testing.T) {
	repo := repository.NewMemoryRunsRepository()
	svc := NewExtractionService(testConfig(), repo, nil, nil, report.NewWriter(zap.NewNop()), zap.NewNop())

	reportPath := filepath.Join(t.TempDir(), "report.xlsx")
	result, err := svc.Run(context.Background(), &RunRequest{
		SnapshotPath: writeSnapshot(t),
		ReportPath:   reportPath,
	})
	require.NoError(t, err)

	assert.Equal(t, "Duplex_A", result.Project)
	assert.Equal(t, 1, result.RoomCount)
	assert.Equal(t, 1, result.WindowCount)
	assert.Equal(t, 0, result.AnomalyCount)
	assert.NotEmpty(t, result.RunID)

	// 运行记录已持久化
	rec, err := repo.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	require.Len(t, rec.Rooms, 1)
	assert.Equal(t, "A203", rec.Rooms[0].Code)
	require.Len(t, rec.Rooms[0].Windows, 1)
	assert.Equal(t, geometry.Left, rec.Rooms[0].Windows[0].WallOrientation)

	// 报告已生成
	_, err = os.Stat(reportPath)
	assert.NoError(t, err)
}

func TestExtractionService_Run_CachesTree(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := store.NewTreeCache(store.NewRedisKV(client))

	repo := repository.NewMemoryRunsRepository()
	svc := NewExtractionService(testConfig(), repo, cache, nil, report.NewWriter(zap.NewNop()), zap.NewNop())

	result, err := svc.Run(context.Background(), &RunRequest{
		SnapshotPath: writeSnapshot(t),
		ReportPath:   filepath.Join(t.TempDir(), "report.xlsx"),
	})
	require.NoError(t, err)

	runID, rooms, err := cache.LatestTree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.RunID, runID)
	require.Len(t, rooms, 1)
	assert.Equal(t, "A203", rooms[0].Code)
}

func TestExtractionService_Run_WithSimulation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		data, _ := json.Marshal(simulation.GridResult{
			RoomCode:    "A203",
			Illuminance: []float64{300, 250, 220, 90},
		})
		json.NewEncoder(w).Encode(map[string]any{"status": 0, "msg": "ok", "data": json.RawMessage(data)})
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Simulation = config.SimulationConfig{
		Enabled: true, URL: srv.URL,
		LightTransmittance: 0.6, GridSize: 0.5, PlaneHeight: 0.75,
	}
	sim := simulation.NewClient(cfg.Simulation, zap.NewNop())

	repo := repository.NewMemoryRunsRepository()
	svc := NewExtractionService(cfg, repo, nil, sim, report.NewWriter(zap.NewNop()), zap.NewNop())

	result, err := svc.Run(context.Background(), &RunRequest{
		SnapshotPath: writeSnapshot(t),
		ReportPath:   filepath.Join(t.TempDir(), "report.xlsx"),
	})
	require.NoError(t, err)

	require.Len(t, result.Assessments, 1)
	a := result.Assessments[0]
	assert.Equal(t, "A203", a.RoomCode)
	assert.InDelta(t, 0.75, a.PassFraction, 1e-9)
	assert.True(t, a.Passed)
}

func TestExtractionService_Run_MissingSnapshot(t *testing.T) {
	repo := repository.NewMemoryRunsRepository()
	svc := NewExtractionService(testConfig(), repo, nil, nil, report.NewWriter(zap.NewNop()), zap.NewNop())

	_, err := svc.Run(context.Background(), &RunRequest{
		SnapshotPath: "/does/not/exist.json",
		ReportPath:   filepath.Join(t.TempDir(), "report.xlsx"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load model snapshot")
}
