// shiftfill 服务入口
// 启动时加载历史排班数据集并构建补位引擎，对外提供补位与统计API
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/shiftfill/shiftfill/internal/config"
	"github.com/shiftfill/shiftfill/internal/database"
	"github.com/shiftfill/shiftfill/internal/dataset"
	"github.com/shiftfill/shiftfill/internal/handler"
	"github.com/shiftfill/shiftfill/internal/metrics"
	"github.com/shiftfill/shiftfill/internal/repository"
	"github.com/shiftfill/shiftfill/pkg/engine"
	"github.com/shiftfill/shiftfill/pkg/logger"
	"github.com/shiftfill/shiftfill/pkg/model"
	"github.com/shiftfill/shiftfill/pkg/scheduler/solver"
	"github.com/shiftfill/shiftfill/pkg/snapshot"
)

// 构建信息（编译时通过 -ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logFormat := "json"
	if cfg.IsDevelopment() {
		logFormat = "console"
	}
	logger.Init(logger.Config{
		Level:      cfg.App.LogLevel,
		Format:     logFormat,
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	})

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("env", cfg.App.Env).
		Msg("shiftfill 启动中")

	historical, latest, snapshotDate, err := loadDataset(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载历史数据集失败")
	}

	eng, err := buildEngine(cfg, historical, latest)
	if err != nil {
		logger.Fatal().Err(err).Msg("构建补位引擎失败")
	}

	status := eng.Status()
	logger.Info().
		Str("snapshot_date", snapshotDate).
		Int("cells", status.Cells).
		Int("unfilled_cells", status.UnfilledCells).
		Int("employees", status.Employees).
		Str("solver", status.Solver).
		Msg("补位引擎就绪")

	mux := setupRoutes(cfg, eng)

	var h http.Handler = mux
	h = loggingMiddleware(h)
	if cfg.API.CORSEnabled {
		h = corsMiddleware(h)
	}
	h = rateLimitMiddleware(h, cfg.API.RateLimit)
	h = requestIDMiddleware(h)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      h,
		ReadTimeout:  cfg.API.Timeout,
		WriteTimeout: cfg.API.Timeout + cfg.Engine.SolveTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.App.Port).Msg("HTTP服务监听中")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP服务启动失败")
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("收到退出信号，开始优雅关闭")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务关闭失败")
	}
	logger.Info().Msg("服务已退出")
}

// loadDataset 加载历史数据集并切分为历史语料与最新快照
func loadDataset(cfg *config.Config) (historical []*model.Cell, latest []model.CellRecord, snapshotDate string, err error) {
	var records []model.CellRecord

	switch cfg.Dataset.Source {
	case "db":
		db, derr := database.New(&cfg.Database)
		if derr != nil {
			return nil, nil, "", derr
		}
		defer db.Close()

		repo := repository.NewHistoryRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		snapshotDate = cfg.Dataset.TargetDate
		if snapshotDate == "" {
			if snapshotDate, err = repo.LatestSnapshotDate(ctx); err != nil {
				return nil, nil, "", err
			}
		}
		histRecords, herr := repo.LoadHistoricalBefore(ctx, snapshotDate)
		if herr != nil {
			return nil, nil, "", herr
		}
		if latest, err = repo.LoadSnapshot(ctx, snapshotDate); err != nil {
			return nil, nil, "", err
		}
		records = histRecords

	default:
		if records, err = dataset.Load(cfg.Dataset.CSVPath); err != nil {
			return nil, nil, "", err
		}
		if records, latest, snapshotDate, err = dataset.SplitHistoricalAndLatest(records, cfg.Dataset.TargetDate); err != nil {
			return nil, nil, "", err
		}
	}

	historical, duplicates, err := snapshot.CollapseHistorical(records)
	if err != nil {
		return nil, nil, "", err
	}
	if duplicates > 0 {
		logger.Warn().Int("duplicates", duplicates).Msg("历史数据集中的重复子行已归并")
	}
	return historical, latest, snapshotDate, nil
}

// buildEngine 按配置构建补位引擎
func buildEngine(cfg *config.Config, historical []*model.Cell, latest []model.CellRecord) (*engine.Engine, error) {
	var slv solver.Solver
	switch cfg.Engine.Solver {
	case "greedy":
		slv = solver.NewGreedySolver()
	default:
		slv = solver.NewBranchAndBoundSolver()
	}

	return engine.New(engine.Params{
		Historical: historical,
		Latest:     latest,
		Solver:     slv,
	})
}

// setupRoutes 配置路由
func setupRoutes(cfg *config.Config, eng *engine.Engine) *http.ServeMux {
	mux := http.NewServeMux()

	engineHandler := handler.NewEngineHandler(eng, cfg.Engine.SolveTimeout)
	statsHandler := handler.NewStatsHandler(eng, cfg.Engine.SolveTimeout)

	mux.HandleFunc("/health", engineHandler.Health)
	mux.HandleFunc("/version", versionHandler)

	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	mux.HandleFunc("/api/v1/", apiIndexHandler)
	mux.HandleFunc("/api/v1/cells/resolve", engineHandler.ResolveCell)
	mux.HandleFunc("/api/v1/cells/explain", engineHandler.ExplainCandidate)
	mux.HandleFunc("/api/v1/schedule/fill", engineHandler.FillWeek)
	mux.HandleFunc("/api/v1/schedule/validate", engineHandler.ValidateSchedule)
	mux.HandleFunc("/api/v1/constraints/library", engineHandler.ConstraintLibrary)
	mux.HandleFunc("/api/v1/stats/assignment", statsHandler.AssignmentQuality)
	mux.HandleFunc("/api/v1/stats/workload", statsHandler.WorkloadDistribution)

	return mux
}

// versionHandler 返回构建信息
func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"version":%q,"build_time":%q,"git_commit":%q}`, Version, BuildTime, GitCommit)
}

// apiIndexHandler 返回API索引
func apiIndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{
  "endpoints": [
    "GET|POST /api/v1/cells/resolve",
    "GET /api/v1/cells/explain",
    "POST /api/v1/schedule/fill",
    "POST /api/v1/schedule/validate",
    "GET /api/v1/constraints/library",
    "GET /api/v1/stats/assignment",
    "GET /api/v1/stats/workload"
  ]
}`)
}

// responseWriter 包装 http.ResponseWriter 以记录状态码
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// requestIDMiddleware 为每个请求分配唯一标识
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), "request_id", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimiter 基于令牌桶的限流器（按客户端IP）
type RateLimiter struct {
	tokens     map[string]float64
	lastUpdate map[string]time.Time
	rate       float64 // 每秒补充令牌数
	burst      float64
	mu         sync.Mutex
}

// NewRateLimiter 创建限流器
func NewRateLimiter(ratePerSecond int) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string]float64),
		lastUpdate: make(map[string]time.Time),
		rate:       float64(ratePerSecond),
		burst:      float64(ratePerSecond),
	}
}

// Allow 检查请求是否放行
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	tokens, exists := rl.tokens[clientIP]
	if !exists {
		rl.tokens[clientIP] = rl.burst - 1
		rl.lastUpdate[clientIP] = now
		return true
	}

	elapsed := now.Sub(rl.lastUpdate[clientIP]).Seconds()
	tokens += elapsed * rl.rate
	if tokens > rl.burst {
		tokens = rl.burst
	}

	if tokens < 1 {
		rl.tokens[clientIP] = tokens
		rl.lastUpdate[clientIP] = now
		return false
	}

	rl.tokens[clientIP] = tokens - 1
	rl.lastUpdate[clientIP] = now
	return true
}

// rateLimitMiddleware 限流中间件
func rateLimitMiddleware(next http.Handler, ratePerSecond int) http.Handler {
	limiter := NewRateLimiter(ratePerSecond)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.RemoteAddr
		if idx := strings.LastIndex(clientIP, ":"); idx != -1 {
			clientIP = clientIP[:idx]
		}

		if !limiter.Allow(clientIP) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":true,"code":"RATE_LIMITED","message":"请求过于频繁"}`)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// corsMiddleware CORS中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware 请求日志中间件
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		metrics.RecordRequest(r.Method, r.URL.Path, rw.status, duration)

		logger.WithContext(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("duration", duration).
			Str("remote", r.RemoteAddr).
			Msg("HTTP请求")
	})
}
