package model

// Symbol 梦境符号及其释义
type Symbol struct {
	Symbol  string `json:"symbol" yaml:"symbol" validate:"required"`
	Meaning string `json:"meaning" yaml:"meaning"`
}

// AnalysisRequest 梦境解析请求
type AnalysisRequest struct {
	Narrative string `json:"dream" validate:"required"`  // 梦境描述
	School    string `json:"school" validate:"required"` // 解读流派
}

// AnalysisResult 单次解析结果，不做持久化
type AnalysisResult struct {
	Narrative string   `json:"dream"`
	School    string   `json:"school"`
	Analysis  string   `json:"analysis"` // 模型原样返回的解析文本
	Symbols   []Symbol `json:"symbols"`  // 按符号库顺序，最多 5 个
}

// ReportRequest 生成报告所需数据，与 AnalysisResult 同构，由调用方回传
type ReportRequest struct {
	Narrative string   `json:"dream" validate:"required"`
	School    string   `json:"school" validate:"required"`
	Analysis  string   `json:"analysis" validate:"required"`
	Symbols   []Symbol `json:"symbols" validate:"dive"`
}

// ReportRequestFrom 用解析结果构造报告请求
func ReportRequestFrom(r *AnalysisResult) ReportRequest {
	return ReportRequest{
		Narrative: r.Narrative,
		School:    r.School,
		Analysis:  r.Analysis,
		Symbols:   r.Symbols,
	}
}
