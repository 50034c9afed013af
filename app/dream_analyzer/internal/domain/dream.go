package domain

import "github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"

// AnalyzeReply 梦境解析响应
type AnalyzeReply struct {
	Success  bool           `json:"success"`
	Dream    string         `json:"dream"`
	School   string         `json:"school"`
	Analysis string         `json:"analysis"`
	Symbols  []model.Symbol `json:"symbols"`
}

// NewAnalyzeReply 由解析结果构造响应
func NewAnalyzeReply(r *model.AnalysisResult) *AnalyzeReply {
	symbols := r.Symbols
	if symbols == nil {
		symbols = []model.Symbol{}
	}
	return &AnalyzeReply{
		Success:  true,
		Dream:    r.Narrative,
		School:   r.School,
		Analysis: r.Analysis,
		Symbols:  symbols,
	}
}

// School 可选的解读流派
type School struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Icon        string   `json:"icon"`
	Description string   `json:"desc"`
	Focus       []string `json:"focus"`
	Rationale   string   `json:"rationale"`
}

// SchoolsReply 流派列表
type SchoolsReply struct {
	Default string    `json:"default"`
	Schools []*School `json:"schools"`
}

// Report 生成好的报告文件
type Report struct {
	Filename string
	Content  []byte
}

// ErrorReply 统一错误响应，只包含固定提示语与原因码，不暴露内部错误
type ErrorReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
}
