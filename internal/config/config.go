// Package config 提供配置管理
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Dataset  DatasetConfig  `envPrefix:"DATASET_"`
	Engine   EngineConfig   `envPrefix:"ENGINE_"`
	API      APIConfig      `envPrefix:"API_"`
	Metrics  MetricsConfig  `envPrefix:"METRICS_"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `env:"NAME" envDefault:"shiftfill"`
	Env      string `env:"ENV" envDefault:"development" validate:"oneof=development production test"`
	Port     int    `env:"PORT" envDefault:"7031" validate:"min=1,max=65535"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error fatal"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"5432" validate:"min=1,max=65535"`
	Name            string        `env:"NAME" envDefault:"shiftfill"`
	User            string        `env:"USER" envDefault:"shiftfill"`
	Password        string        `env:"PASSWORD" envDefault:"shiftfill123"`
	SSLMode         string        `env:"SSL_MODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// DatasetConfig 数据集配置
// Source 为 db 时从数据库加载历史数据，为 csv 时从本地文件加载
type DatasetConfig struct {
	Source     string `env:"SOURCE" envDefault:"csv" validate:"oneof=csv db"`
	CSVPath    string `env:"CSV_PATH" envDefault:"data/schedule_historical.csv"`
	TargetDate string `env:"TARGET_DATE" envDefault:""` // 留空取数据集中最晚快照日期
}

// EngineConfig 补位引擎配置
type EngineConfig struct {
	Solver       string        `env:"SOLVER" envDefault:"branch_and_bound" validate:"oneof=branch_and_bound greedy"`
	SolveTimeout time.Duration `env:"SOLVE_TIMEOUT" envDefault:"30s"`
}

// APIConfig API配置
type APIConfig struct {
	RateLimit   int           `env:"RATE_LIMIT" envDefault:"100"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`
	CORSEnabled bool          `env:"CORS_ENABLED" envDefault:"true"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/metrics"`
}

// Load 加载配置
// 先读入 .env 文件（不存在时忽略），再解析环境变量并校验取值
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}

	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
