// Package analysis 调用外部大模型生成梦境解析文本。
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/config"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/logger"
)

var (
	// ErrAnalysisFailed 外部服务不可达、返回错误或返回内容异常
	ErrAnalysisFailed = errors.New("dream analysis failed")
	// ErrAnalysisTimeout 外部服务超时，同时匹配 ErrAnalysisFailed
	ErrAnalysisTimeout = fmt.Errorf("%w: timeout", ErrAnalysisFailed)
	// ErrMalformedResponse 模型返回空消息，同时匹配 ErrAnalysisFailed
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrAnalysisFailed)
)

const DefaultTimeout = 60 * time.Second

// Client 解析客户端。不重试、不缓存，每次调用都是一次新的模型请求。
type Client struct {
	chatModel model.BaseChatModel
	limiter   *rate.Limiter
	timeout   time.Duration
}

// Option 客户端选项
type Option func(*Client)

// WithLimiter 设置限流器
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithTimeout 设置单次调用超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New 基于任意 eino ChatModel 创建客户端
func New(cm model.BaseChatModel, opts ...Option) *Client {
	c := &Client{
		chatModel: cm,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClient 按配置初始化 OpenAI 兼容的模型（默认火山方舟）
func NewClient(ctx context.Context, llm config.LLMConfig, cc config.ConcurrencyConfig) (*Client, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: llm.BaseURL,
		APIKey:  llm.APIKey,
		Model:   llm.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	// Limit 设置为 RPM/60，Burst 设置为 QPS
	limit := rate.Limit(float64(cc.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cc.QPS)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limit, cc.QPS)

	return New(chatModel, WithLimiter(limiter), WithTimeout(llm.Timeout)), nil
}

// Analyze 以 system/user 两轮消息调用模型，原样返回生成文本
func (c *Client) Analyze(ctx context.Context, systemInstruction, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			// 令牌等待超出剩余时间同样视为超时
			if !errors.Is(ctx.Err(), context.Canceled) {
				return "", fmt.Errorf("%w: limiter wait error: %v", ErrAnalysisTimeout, err)
			}
			return "", c.wrap(ctx, err)
		}
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: systemInstruction},
		{Role: schema.User, Content: userMessage},
	}

	start := time.Now()
	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", c.wrap(ctx, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrMalformedResponse
	}
	logger.Log.Debugf("模型返回 %d 字节，耗时 %v", len(resp.Content), time.Since(start))

	return resp.Content, nil
}

func (c *Client) wrap(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrAnalysisTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
}
