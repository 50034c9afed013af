package repo

import (
	"context"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/prompt"
)

// DreamEngine 梦境解析引擎接口
type DreamEngine interface {
	// Analyze 解析梦境并匹配符号
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error)
	// Report 根据解析结果生成 PDF
	Report(ctx context.Context, req model.ReportRequest) ([]byte, error)
	// Schools 列出解读流派
	Schools() []prompt.Profile
	// DefaultSchool 未知流派回退到的流派
	DefaultSchool() string
}
