package server

import (
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/domain"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/service"
)

// ErrorEncoder 以统一结构输出错误，消息固定为面向用户的提示语。
// 编码方式按请求的 Accept 头选择，默认 JSON。
func ErrorEncoder(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	se := errors.FromError(err)
	codec, _ := http.CodecForRequest(r, "Accept")
	body, err := codec.Marshal(&domain.ErrorReply{
		Success: false,
		Error:   service.PublicMessage(se.Reason),
		Reason:  se.Reason,
	})
	if err != nil {
		w.WriteHeader(nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/"+codec.Name())
	w.WriteHeader(int(se.Code))
	_, _ = w.Write(body)
}
