package server

import (
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/gorilla/handlers"
)

// CORS 跨域过滤器。origins 为空时允许任意来源。
func CORS(origins []string) http.FilterFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.ExposedHeaders([]string{"Content-Disposition"}),
		handlers.OptionStatusCode(nethttp.StatusNoContent),
	)
}
