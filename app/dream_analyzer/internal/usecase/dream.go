package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/domain"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/repo"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/report"
)

// DreamUseCase 梦境解析业务逻辑
type DreamUseCase struct {
	engine repo.DreamEngine
	log    *log.Helper
}

// NewDreamUseCase 创建梦境解析业务逻辑实例
func NewDreamUseCase(engine repo.DreamEngine, logger log.Logger) *DreamUseCase {
	return &DreamUseCase{engine: engine, log: log.NewHelper(logger)}
}

// Analyze 解析梦境
func (uc *DreamUseCase) Analyze(ctx context.Context, req model.AnalysisRequest) (*domain.AnalyzeReply, error) {
	res, err := uc.engine.Analyze(ctx, req)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("analyze dream: %v", err)
		return nil, err
	}
	return domain.NewAnalyzeReply(res), nil
}

// Report 生成 PDF 报告，附带建议的文件名
func (uc *DreamUseCase) Report(ctx context.Context, req model.ReportRequest) (*domain.Report, error) {
	content, err := uc.engine.Report(ctx, req)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("generate report: %v", err)
		return nil, err
	}
	return &domain.Report{Filename: report.Filename, Content: content}, nil
}

// Schools 列出解读流派
func (uc *DreamUseCase) Schools(ctx context.Context) *domain.SchoolsReply {
	profiles := uc.engine.Schools()
	reply := &domain.SchoolsReply{
		Default: uc.engine.DefaultSchool(),
		Schools: make([]*domain.School, 0, len(profiles)),
	}
	for _, p := range profiles {
		reply.Schools = append(reply.Schools, &domain.School{
			ID:          p.ID,
			Label:       p.Label,
			Icon:        p.Icon,
			Description: p.Description,
			Focus:       p.Stance.Focus,
			Rationale:   p.Stance.Rationale,
		})
	}
	return reply
}
