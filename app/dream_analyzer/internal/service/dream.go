package service

import (
	"context"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/domain"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/usecase"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"
)

const (
	OperationAnalyzeDream   = "/dream.v1.Dream/AnalyzeDream"
	OperationGenerateReport = "/dream.v1.Dream/GenerateReport"
	OperationListSchools    = "/dream.v1.Dream/ListSchools"
)

type DreamService struct {
	uc  *usecase.DreamUseCase
	log *log.Helper
}

func NewDreamService(uc *usecase.DreamUseCase, logger log.Logger) *DreamService {
	return &DreamService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// RegisterDreamHTTPServer 注册梦境解析相关路由
func RegisterDreamHTTPServer(srv *http.Server, s *DreamService) {
	r := srv.Route("/")
	r.POST("/api/analyze-dream", s.AnalyzeDream)
	r.POST("/api/generate-report", s.GenerateReport)
	r.GET("/api/schools", s.ListSchools)
}

func (s *DreamService) AnalyzeDream(ctx http.Context) error {
	var in model.AnalysisRequest
	if err := ctx.Bind(&in); err != nil {
		s.log.WithContext(ctx).Warnf("bind analyze request: %v", err)
		return ErrInvalidInput()
	}
	http.SetOperation(ctx, OperationAnalyzeDream)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.Analyze(ctx, req.(model.AnalysisRequest))
	})
	out, err := h(ctx, in)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(nethttp.StatusOK, out)
}

func (s *DreamService) GenerateReport(ctx http.Context) error {
	var in model.ReportRequest
	if err := ctx.Bind(&in); err != nil {
		s.log.WithContext(ctx).Warnf("bind report request: %v", err)
		return ErrInvalidInput()
	}
	http.SetOperation(ctx, OperationGenerateReport)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.Report(ctx, req.(model.ReportRequest))
	})
	out, err := h(ctx, in)
	if err != nil {
		return toHTTPError(err)
	}

	r := out.(*domain.Report)
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+r.Filename)
	return ctx.Blob(nethttp.StatusOK, "application/pdf", r.Content)
}

func (s *DreamService) ListSchools(ctx http.Context) error {
	http.SetOperation(ctx, OperationListSchools)
	return ctx.JSON(nethttp.StatusOK, s.uc.Schools(ctx))
}
