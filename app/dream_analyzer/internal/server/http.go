package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/conf"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/internal/service"
)

// defaultTimeout 需覆盖一次完整的模型调用，kratos 默认的 1s 远远不够
const defaultTimeout = 120 * time.Second

func NewHTTPServer(c *conf.Server, s *service.DreamService, logger log.Logger) *http.Server {
	var origins []string
	timeout := defaultTimeout
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.ErrorEncoder(ErrorEncoder),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				timeout = d
			} else {
				log.NewHelper(logger).Warnf("invalid server timeout %q, using %v", c.Http.Timeout, defaultTimeout)
			}
		}
		origins = c.Http.CorsOrigins
	}
	opts = append(opts,
		http.Timeout(timeout),
		http.Filter(CORS(origins)),
	)

	srv := http.NewServer(opts...)
	service.RegisterDreamHTTPServer(srv, s)
	srv.Handle("/metrics", promhttp.Handler())

	return srv
}
