package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/analysis"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/config"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/logger"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/metrics"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/prompt"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/report"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/symbol"
)

// ErrInvalidInput 缺少梦境描述或解读流派等必填内容
var ErrInvalidInput = errors.New("invalid input")

// Analyst 外部解析服务
type Analyst interface {
	Analyze(ctx context.Context, systemInstruction, userMessage string) (string, error)
}

// Reporter PDF 报告生成
type Reporter interface {
	Compose(ctx context.Context, req model.ReportRequest) ([]byte, error)
}

// Engine 核心处理引擎：提示词组装、符号匹配、模型解析与报告生成
type Engine struct {
	lexicon  *symbol.Lexicon
	prompts  *prompt.Composer
	analyst  Analyst
	reporter Reporter
	validate *validator.Validate
}

// New 使用内置符号库与流派创建引擎
func New(analyst Analyst, reporter Reporter) *Engine {
	return &Engine{
		lexicon:  symbol.DefaultLexicon(),
		prompts:  prompt.DefaultComposer(),
		analyst:  analyst,
		reporter: reporter,
		validate: validator.New(),
	}
}

// NewEngine 按配置创建引擎实例
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	if cfg.LLM.APIKey == "" {
		logger.Log.Warnf("未配置 LLM api_key，也未设置环境变量 %s", config.APIKeyEnv)
	}

	client, err := analysis.NewClient(ctx, cfg.LLM, cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	fontPath := cfg.Report.FontPath
	if fontPath == "" {
		if p, ok := report.FindFont(report.FontCandidates); ok {
			fontPath = p
			logger.Log.Infof("未配置 report.font_path，使用系统字体 %s", p)
		} else {
			logger.Log.Warn("未配置 report.font_path 且未找到系统中文字体，PDF 中的中文将无法显示")
		}
	}

	compress := cfg.Report.Compress == nil || *cfg.Report.Compress
	reporter, err := report.NewComposer(fontPath, report.WithCompression(compress))
	if err != nil {
		return nil, fmt.Errorf("报告生成器初始化失败: %w", err)
	}

	return New(client, reporter), nil
}

// Analyze 执行一次梦境解析。
// 输入无效时直接返回 ErrInvalidInput，不会调用外部服务；
// 模型调用与符号匹配互不依赖，并发执行。
func (e *Engine) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	if err := e.check(model.AnalysisRequest{
		Narrative: strings.TrimSpace(req.Narrative),
		School:    strings.TrimSpace(req.School),
	}); err != nil {
		metrics.Analyses.WithLabelValues("", metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	profile, known := e.prompts.Resolved(req.School)
	log := logger.Log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"school":     profile.ID,
	})
	if !known {
		log.Warnf("未知解读流派 %q，回退到默认流派", req.School)
	}
	log.Infof("开始解析梦境，描述长度 %d", len([]rune(req.Narrative)))

	var (
		g       errgroup.Group
		text    string
		symbols []model.Symbol
	)
	g.Go(func() error {
		p := e.prompts.Compose(req.School, req.Narrative)
		start := time.Now()
		out, err := e.analyst.Analyze(ctx, p.SystemInstruction, p.UserMessage)
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	g.Go(func() error {
		symbols = e.lexicon.Match(req.Narrative)
		return nil
	})

	if err := g.Wait(); err != nil {
		outcome := metrics.OutcomeFailure
		if errors.Is(err, analysis.ErrAnalysisTimeout) {
			outcome = metrics.OutcomeTimeout
		}
		metrics.Analyses.WithLabelValues(profile.ID, outcome).Inc()
		log.Errorf("梦境解析失败: %v", err)

		if !errors.Is(err, analysis.ErrAnalysisFailed) {
			err = fmt.Errorf("%w: %v", analysis.ErrAnalysisFailed, err)
		}
		return nil, err
	}

	metrics.Analyses.WithLabelValues(profile.ID, metrics.OutcomeSuccess).Inc()
	metrics.SymbolsMatched.Observe(float64(len(symbols)))
	log.Infof("解析完成，识别到 %d 个符号", len(symbols))

	return &model.AnalysisResult{
		Narrative: req.Narrative,
		School:    req.School,
		Analysis:  text,
		Symbols:   symbols,
	}, nil
}

// Report 根据调用方回传的解析结果生成 PDF，不会重新解析
func (e *Engine) Report(ctx context.Context, req model.ReportRequest) ([]byte, error) {
	if err := e.check(model.ReportRequest{
		Narrative: strings.TrimSpace(req.Narrative),
		School:    strings.TrimSpace(req.School),
		Analysis:  strings.TrimSpace(req.Analysis),
		Symbols:   req.Symbols,
	}); err != nil {
		metrics.Reports.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	out, err := e.reporter.Compose(ctx, req)
	if err != nil {
		metrics.Reports.WithLabelValues(metrics.OutcomeFailure).Inc()
		logger.Log.Errorf("报告生成失败: %v", err)
		if !errors.Is(err, report.ErrReportFailed) {
			err = fmt.Errorf("%w: %v", report.ErrReportFailed, err)
		}
		return nil, err
	}

	metrics.Reports.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.ReportBytes.Observe(float64(len(out)))
	logger.Log.Infof("报告生成完成: %d 字节，%d 个符号", len(out), len(req.Symbols))
	return out, nil
}

// Schools 列出可选的解读流派
func (e *Engine) Schools() []prompt.Profile {
	return e.prompts.Profiles()
}

// DefaultSchool 未知流派回退到的流派
func (e *Engine) DefaultSchool() string {
	return e.prompts.DefaultID()
}

func (e *Engine) check(v any) error {
	if err := e.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
