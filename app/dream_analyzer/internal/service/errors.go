package service

import (
	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/analysis"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/engine"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/report"
)

const (
	ReasonInvalidInput    = "INVALID_INPUT"
	ReasonAnalysisFailed  = "ANALYSIS_FAILED"
	ReasonAnalysisTimeout = "ANALYSIS_TIMEOUT"
	ReasonReportFailed    = "REPORT_FAILED"
	ReasonInternal        = "INTERNAL"
)

// 面向用户的固定提示语
const (
	MsgInvalidInput    = "请提供梦境描述和解读流派"
	MsgAnalysisFailed  = "梦境解析失败，请稍后重试"
	MsgAnalysisTimeout = "梦境解析超时，请稍后重试"
	MsgReportFailed    = "报告生成失败"
	MsgInternal        = "服务暂时不可用，请稍后重试"
)

func ErrInvalidInput() *errors.Error {
	return errors.BadRequest(ReasonInvalidInput, MsgInvalidInput)
}

// toHTTPError 把核心错误转换为 kratos 错误，原始错误只记录日志，不返回给调用方
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return ErrInvalidInput()
	case errors.Is(err, analysis.ErrAnalysisTimeout):
		return errors.GatewayTimeout(ReasonAnalysisTimeout, MsgAnalysisTimeout)
	case errors.Is(err, analysis.ErrAnalysisFailed):
		return errors.ServiceUnavailable(ReasonAnalysisFailed, MsgAnalysisFailed)
	case errors.Is(err, report.ErrReportFailed):
		return errors.InternalServer(ReasonReportFailed, MsgReportFailed)
	default:
		return errors.InternalServer(ReasonInternal, MsgInternal)
	}
}

// PublicMessage 返回错误原因对应的固定提示语
func PublicMessage(reason string) string {
	switch reason {
	case ReasonInvalidInput:
		return MsgInvalidInput
	case ReasonAnalysisFailed:
		return MsgAnalysisFailed
	case ReasonAnalysisTimeout:
		return MsgAnalysisTimeout
	case ReasonReportFailed:
		return MsgReportFailed
	default:
		return MsgInternal
	}
}
