package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/analysis"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/prompt"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/report"
)

type fakeAnalyst struct {
	mu     sync.Mutex
	text   string
	err    error
	calls  int
	system string
	user   string
}

func (f *fakeAnalyst) Analyze(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.system, f.user = system, user
	return f.text, f.err
}

type fakeReporter struct {
	out   []byte
	err   error
	calls int
	got   model.ReportRequest
}

func (f *fakeReporter) Compose(_ context.Context, req model.ReportRequest) ([]byte, error) {
	f.calls++
	f.got = req
	return f.out, f.err
}

func TestAnalyze(t *testing.T) {
	analyst := &fakeAnalyst{text: "整体解读……"}
	reporter := &fakeReporter{}
	e := New(analyst, reporter)

	res, err := e.Analyze(context.Background(), model.AnalysisRequest{
		Narrative: "我梦见一条蛇在水中游动",
		School:    prompt.SchoolFreud,
	})
	require.NoError(t, err)

	assert.Equal(t, "我梦见一条蛇在水中游动", res.Narrative)
	assert.Equal(t, prompt.SchoolFreud, res.School)
	assert.Equal(t, "整体解读……", res.Analysis)
	require.Len(t, res.Symbols, 2)
	assert.Equal(t, "蛇", res.Symbols[0].Symbol)
	assert.Equal(t, "水", res.Symbols[1].Symbol)

	assert.Equal(t, 1, analyst.calls)
	assert.True(t, strings.HasPrefix(analyst.system, "你是一名专业的弗洛伊德学派梦境分析师"))
	assert.Contains(t, analyst.user, "我梦见一条蛇在水中游动")
	assert.Equal(t, 0, reporter.calls)
}

func TestAnalyzeUnknownSchoolUsesDefaultProfile(t *testing.T) {
	analyst := &fakeAnalyst{text: "ok"}
	e := New(analyst, &fakeReporter{})

	res, err := e.Analyze(context.Background(), model.AnalysisRequest{Narrative: "梦", School: "佛洛伊德"})
	require.NoError(t, err)

	assert.Equal(t, "佛洛伊德", res.School, "school is echoed as supplied")
	assert.Equal(t, prompt.DefaultComposer().ResolveProfile(prompt.SchoolJung).SystemInstruction, analyst.system)
	assert.Equal(t, prompt.SchoolJung, e.DefaultSchool())
}

func TestAnalyzeInvalidInput(t *testing.T) {
	cases := map[string]model.AnalysisRequest{
		"empty narrative":  {Narrative: "", School: prompt.SchoolJung},
		"blank narrative":  {Narrative: "  \n\t", School: prompt.SchoolJung},
		"missing school":   {Narrative: "梦见蛇", School: ""},
		"everything empty": {},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			analyst := &fakeAnalyst{text: "never"}
			e := New(analyst, &fakeReporter{})

			res, err := e.Analyze(context.Background(), req)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, analyst.calls, "no external call on invalid input")
		})
	}
}

func TestAnalyzeExternalFailure(t *testing.T) {
	analyst := &fakeAnalyst{err: errors.New("connection reset by peer")}
	reporter := &fakeReporter{}
	e := New(analyst, reporter)

	res, err := e.Analyze(context.Background(), model.AnalysisRequest{Narrative: "梦见火", School: prompt.SchoolJung})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, analysis.ErrAnalysisFailed)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, reporter.calls, "no PDF generation after a failed analysis")
}

func TestAnalyzeTimeoutPropagates(t *testing.T) {
	analyst := &fakeAnalyst{err: analysis.ErrAnalysisTimeout}
	e := New(analyst, &fakeReporter{})

	_, err := e.Analyze(context.Background(), model.AnalysisRequest{Narrative: "梦见火", School: prompt.SchoolJung})
	assert.ErrorIs(t, err, analysis.ErrAnalysisTimeout)
	assert.ErrorIs(t, err, analysis.ErrAnalysisFailed)
}

func TestReport(t *testing.T) {
	reporter := &fakeReporter{out: []byte("%PDF-1.3 fake")}
	e := New(&fakeAnalyst{}, reporter)

	req := model.ReportRequest{
		Narrative: "梦见蛇",
		School:    prompt.SchoolJung,
		Analysis:  "解析",
		Symbols:   []model.Symbol{{Symbol: "蛇", Meaning: "转变"}},
	}
	out, err := e.Report(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3 fake"), out)
	assert.Equal(t, req, reporter.got)
}

func TestReportInvalidInput(t *testing.T) {
	cases := map[string]model.ReportRequest{
		"no narrative": {School: "荣格式", Analysis: "a"},
		"no analysis":  {Narrative: "n", School: "荣格式", Analysis: " "},
		"no school":    {Narrative: "n", Analysis: "a"},
		"empty symbol": {Narrative: "n", School: "荣格式", Analysis: "a", Symbols: []model.Symbol{{Meaning: "m"}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			reporter := &fakeReporter{}
			e := New(&fakeAnalyst{}, reporter)

			_, err := e.Report(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, reporter.calls)
		})
	}
}

func TestReportFailureIsWrapped(t *testing.T) {
	e := New(&fakeAnalyst{}, &fakeReporter{err: errors.New("disk full")})

	out, err := e.Report(context.Background(), model.ReportRequest{Narrative: "n", School: "荣格式", Analysis: "a"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, report.ErrReportFailed)
}

func TestAnalyzeThenReportEndToEnd(t *testing.T) {
	composer, err := report.NewComposer("",
		report.WithCompression(false),
		report.WithClock(func() time.Time { return time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	e := New(&fakeAnalyst{text: "overall"}, composer)

	res, err := e.Analyze(context.Background(), model.AnalysisRequest{Narrative: "梦见桥和塔", School: prompt.SchoolJung})
	require.NoError(t, err)

	pdf, err := e.Report(context.Background(), model.ReportRequestFrom(res))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.True(t, bytes.Contains(pdf, []byte(report.HeadingSymbols)))
	assert.True(t, bytes.Contains(pdf, []byte("• 桥: ")))
}

func TestSchools(t *testing.T) {
	e := New(&fakeAnalyst{}, &fakeReporter{})
	schools := e.Schools()
	require.Len(t, schools, 2)
	assert.Equal(t, prompt.SchoolFreud, schools[0].ID)
}
