package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// MQTTConfig MQTT 配置（用于触发提取任务）
type MQTTConfig struct {
	Enabled  bool   // 是否启用 MQTT 触发（默认 false）
	Broker   string // MQTT Broker 地址（如 "tcp://localhost:1883"）
	ClientID string // 客户端 ID
	Username string // 用户名（可选）
	Password string // 密码（可选）
	Topic    string // 订阅的主题（如 "daylight/extract"）
	QoS      byte
}

// SimulationConfig 外部采光模拟引擎配置
type SimulationConfig struct {
	Enabled            bool    // 是否在提取后执行采光评估（默认 false）
	URL                string  // 模拟引擎地址
	LightTransmittance float64 // 玻璃可见光透过率（默认 0.6）
	GridSize           float64 // 分析网格尺寸（默认 0.5 m）
	PlaneHeight        float64 // 分析平面高度（默认 0.75 m）
}

// ExtractionConfig 几何提取配置
type ExtractionConfig struct {
	SillDefault        float64  // 缺失窗台高度的默认值（米）
	ExcludedRooms      []string // 不参与分析的空间类别（如 Hallway、Roof）
	OrientToleranceDeg float64  // 墙体朝向匹配的角度容差（度）
	QueryMargin        float64  // 空间索引查询时包围盒的扩展边距
	WallDistanceMax    float64  // 候选墙到开口中心的最大垂直距离
}

// Config daylight-data 服务配置
type Config struct {
	DBEnabled bool
	Database  DatabaseConfig
	Redis     struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	MQTT       MQTTConfig
	Simulation SimulationConfig
	Extraction ExtractionConfig

	SnapshotPath string // 模型快照文件路径
	ReportPath   string // Excel 报告输出路径
}

func Load() *Config {
	cfg := &Config{}

	// Default to false for local dev: without a DB the pipeline persists in memory only.
	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "daylight")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// MQTT 配置（用于触发提取任务，默认禁用）
	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "daylight-data")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "daylight/extract")
	cfg.MQTT.QoS = 1

	// 模拟引擎配置
	cfg.Simulation.Enabled = getEnv("SIM_ENABLED", "false") == "true"
	cfg.Simulation.URL = getEnv("SIM_URL", "http://localhost:8091")
	cfg.Simulation.LightTransmittance = parseFloat(getEnv("SIM_LIGHT_TRANSMITTANCE", "0.6"), 0.6)
	cfg.Simulation.GridSize = parseFloat(getEnv("SIM_GRID_SIZE", "0.5"), 0.5)
	cfg.Simulation.PlaneHeight = parseFloat(getEnv("SIM_PLANE_HEIGHT", "0.75"), 0.75)

	// 提取配置
	cfg.Extraction.SillDefault = parseFloat(getEnv("SILL_DEFAULT", "0.1"), 0.1)
	cfg.Extraction.ExcludedRooms = splitList(getEnv("EXCLUDED_ROOMS", "Hallway,Roof"))
	cfg.Extraction.OrientToleranceDeg = parseFloat(getEnv("ORIENT_TOLERANCE_DEG", "5"), 5)
	cfg.Extraction.QueryMargin = parseFloat(getEnv("QUERY_MARGIN", "0.5"), 0.5)
	cfg.Extraction.WallDistanceMax = parseFloat(getEnv("WALL_DISTANCE_MAX", "1.0"), 1.0)

	cfg.SnapshotPath = getEnv("SNAPSHOT_PATH", "model/snapshot.json")
	cfg.ReportPath = getEnv("REPORT_PATH", "output/output_model_data.xlsx")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
