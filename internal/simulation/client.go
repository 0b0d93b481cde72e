package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mdjska/daylight-analysis/internal/config"
	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/geometry"
)

// 评估常数：CIE 全阴天 10000 lux，目标采光系数 2.1%（即 210 lux），
// 达标面积比例 50%
const (
	SkyIlluminanceLux = 10000.0
	TargetFactor      = 2.1
	PassAreaFraction  = 0.5
)

// GlazingQuad 一扇窗的玻璃面，四个顶点按逆时针排列
type GlazingQuad struct {
	WindowTag     string        `json:"window_tag"`
	Orientation   string        `json:"orientation"`
	Transmittance float64       `json:"transmittance"`
	Vertices      [4][3]float64 `json:"vertices"`
}

// GridRequest 网格化采光模拟请求
type GridRequest struct {
	RoomCode    string        `json:"room_code"`
	Width       float64       `json:"width"`
	Depth       float64       `json:"depth"`
	Height      float64       `json:"height"`
	GridSize    float64       `json:"grid_size"`
	PlaneHeight float64       `json:"plane_height"`
	Glazing     []GlazingQuad `json:"glazing"`
}

// simResponse 模拟引擎响应封装
type simResponse struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// GridResult 模拟引擎返回的分析平面照度
type GridResult struct {
	RoomCode    string    `json:"room_code"`
	Illuminance []float64 `json:"illuminance"` // 每个网格点的照度（lux）
}

// Assessment 单个房间的采光评估结论
type Assessment struct {
	RoomCode     string
	PassFraction float64 // 采光系数达标的网格点比例
	Passed       bool
}

// Client 外部采光模拟引擎客户端
type Client struct {
	httpClient *resty.Client
	cfg        config.SimulationConfig
	logger     *zap.Logger
}

// NewClient 创建模拟引擎客户端
func NewClient(cfg config.SimulationConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(30 * time.Second). // 网格模拟可能需要较长时间
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		cfg:        cfg,
		logger:     logger,
	}
}

// BuildRequest 把房间树节点转换为模拟请求。
// 朝向未解析或坐标越界的窗不参与模拟。
func (c *Client) BuildRequest(room *domain.Room) *GridRequest {
	req := &GridRequest{
		RoomCode:    room.Code,
		Width:       room.Width,
		Depth:       room.Depth,
		Height:      room.Height,
		GridSize:    c.cfg.GridSize,
		PlaneHeight: c.cfg.PlaneHeight,
	}

	for _, win := range room.Windows {
		if win.WallOrientation == geometry.Unknown || win.OutOfRange {
			c.logger.Warn("window excluded from simulation",
				zap.String("room", room.Code),
				zap.String("window", win.Tag),
				zap.Bool("out_of_range", win.OutOfRange),
			)
			continue
		}
		// 玻璃面从修正后的 (locationX, locationY) 张开：x 沿墙长，y 为离地高度
		x, y := win.LocationX, win.LocationY
		req.Glazing = append(req.Glazing, GlazingQuad{
			WindowTag:     win.Tag,
			Orientation:   string(win.WallOrientation),
			Transmittance: c.cfg.LightTransmittance,
			Vertices: [4][3]float64{
				{x, 0, y},
				{x + win.Width, 0, y},
				{x + win.Width, 0, y + win.Height},
				{x, 0, y + win.Height},
			},
		})
	}
	return req
}

// RunGridBased 对单个房间执行网格化模拟
func (c *Client) RunGridBased(ctx context.Context, room *domain.Room) (*GridResult, error) {
	request := c.BuildRequest(room)

	c.logger.Info("Calling simulation engine: grid-based",
		zap.String("room", room.Code),
		zap.Int("glazing_count", len(request.Glazing)),
	)

	var response simResponse
	_, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/simulate/grid")
	if err != nil {
		c.logger.Error("simulation engine call failed", zap.Error(err))
		return nil, fmt.Errorf("failed to call simulation engine: %w", err)
	}

	if response.Status != 0 {
		c.logger.Error("simulation engine returned error",
			zap.Int("status", response.Status),
			zap.String("msg", response.Msg),
		)
		return nil, fmt.Errorf("simulation engine error: %s (status: %d)", response.Msg, response.Status)
	}

	var result GridResult
	if err := json.Unmarshal(response.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grid result: %w", err)
	}
	if result.RoomCode == "" {
		result.RoomCode = room.Code
	}
	return &result, nil
}

// EvaluateDaylight 评估网格结果：每个网格点的采光系数为照度占天空照度的
// 百分比，达标点比例不低于 PassAreaFraction 时房间通过。
func EvaluateDaylight(result *GridResult) Assessment {
	a := Assessment{RoomCode: result.RoomCode}
	if len(result.Illuminance) == 0 {
		return a
	}

	passed := 0
	for _, lux := range result.Illuminance {
		df := lux / SkyIlluminanceLux * 100
		if df >= TargetFactor {
			passed++
		}
	}
	a.PassFraction = float64(passed) / float64(len(result.Illuminance))
	a.Passed = a.PassFraction >= PassAreaFraction
	return a
}
