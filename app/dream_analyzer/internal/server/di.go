package server

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/conf"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/repo"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/service"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/usecase"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/config"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/engine"
	daLogger "github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/logger"
)

// ProviderSet 是梦境解析服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Engine providers
	NewEngine,

	// UseCase providers
	usecase.NewDreamUseCase,

	// Service providers
	service.NewDreamService,
)

// ToConfig 将 internal/conf.Analyzer 转换为 pkg/config.Config，并补齐默认值
func ToConfig(c *conf.Analyzer) *config.Config {
	cfg := &config.Config{}
	if c != nil {
		if c.Llm != nil {
			cfg.LLM = config.LLMConfig{
				BaseURL: c.Llm.BaseUrl,
				APIKey:  c.Llm.ApiKey,
				Model:   c.Llm.Model,
			}
			if d, err := time.ParseDuration(c.Llm.Timeout); err == nil {
				cfg.LLM.Timeout = d
			}
		}
		if c.Report != nil {
			cfg.Report = config.ReportConfig{
				FontPath: c.Report.FontPath,
				Compress: c.Report.Compress,
			}
		}
		if c.Log != nil {
			cfg.Log = config.LogConfig{
				Level: c.Log.Level,
				File:  c.Log.File,
			}
		}
		if c.Concurrency != nil {
			cfg.Concurrency = config.ConcurrencyConfig{
				QPS: int(c.Concurrency.Qps),
				RPM: int(c.Concurrency.Rpm),
			}
		}
	}
	cfg.ApplyDefaults()
	return cfg
}

// NewEngine 初始化梦境解析引擎
func NewEngine(c *conf.Analyzer, logger log.Logger) (repo.DreamEngine, func(), error) {
	cfg := ToConfig(c)

	// 初始化引擎日志
	if err := daLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine logger: %v", err)
		_ = daLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("Cleaning up dream analyzer engine")
	}

	return eng, cleanup, nil
}
