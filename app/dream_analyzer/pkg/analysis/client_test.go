package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// fakeChatModel 模拟 eino ChatModel
type fakeChatModel struct {
	reply    *schema.Message
	err      error
	delay    time.Duration
	calls    int
	received []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	f.received = input
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestAnalyzeReturnsTextVerbatim(t *testing.T) {
	text := "## 整体解读\n\n蛇象征转变……\n"
	fake := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant, Content: text}}
	c := New(fake)

	got, err := c.Analyze(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, text, got)

	require.Len(t, fake.received, 2)
	assert.Equal(t, schema.System, fake.received[0].Role)
	assert.Equal(t, "system", fake.received[0].Content)
	assert.Equal(t, schema.User, fake.received[1].Role)
	assert.Equal(t, "user", fake.received[1].Content)
}

func TestAnalyzeTransportError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("dial tcp: connection refused")}
	c := New(fake)

	_, err := c.Analyze(context.Background(), "s", "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.NotErrorIs(t, err, ErrAnalysisTimeout)
	assert.Equal(t, 1, fake.calls, "no retries")
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	for name, reply := range map[string]*schema.Message{
		"nil":   nil,
		"blank": {Role: schema.Assistant, Content: "  \n"},
	} {
		t.Run(name, func(t *testing.T) {
			c := New(&fakeChatModel{reply: reply})
			_, err := c.Analyze(context.Background(), "s", "u")
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.ErrorIs(t, err, ErrAnalysisFailed)
		})
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	fake := &fakeChatModel{
		reply: &schema.Message{Content: "late"},
		delay: time.Second,
	}
	c := New(fake, WithTimeout(20*time.Millisecond))

	_, err := c.Analyze(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrAnalysisTimeout)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestAnalyzeLimiterTimeout(t *testing.T) {
	fake := &fakeChatModel{reply: &schema.Message{Content: "ok"}}
	// 每分钟一个令牌，第二次调用必然等不到
	limiter := rate.NewLimiter(rate.Every(time.Minute), 1)
	c := New(fake, WithLimiter(limiter), WithTimeout(50*time.Millisecond))

	_, err := c.Analyze(context.Background(), "s", "u")
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrAnalysisTimeout)
	assert.Equal(t, 1, fake.calls)
}

func TestAnalyzeCanceled(t *testing.T) {
	fake := &fakeChatModel{reply: &schema.Message{Content: "ok"}, delay: time.Second}
	c := New(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Analyze(ctx, "s", "u")
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.NotErrorIs(t, err, ErrAnalysisTimeout)
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	c := New(&fakeChatModel{}, WithTimeout(0))
	assert.Equal(t, DefaultTimeout, c.timeout)
}
