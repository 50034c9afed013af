// Package report 把梦境解析结果排版为 PDF 报告。
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"
	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/symbol"
)

// Filename 下载时建议的文件名
const Filename = "dream-analysis-report.pdf"

const (
	Title           = "AI梦境解析报告"
	HeadingDream    = "梦境描述"
	HeadingSchool   = "解读流派"
	HeadingAnalysis = "深度解析"
	HeadingSymbols  = "关键符号"
	Footer          = "—— 由 AI梦境解析器 生成 ——"

	margin       = 50.0
	utf8Family   = "dreamsans"
	coreFamily   = "Helvetica"
	timestampFmt = "2006/1/2 15:04:05"
)

var ErrReportFailed = errors.New("report generation failed")

type rgb struct{ r, g, b int }

var (
	colorTitle   = rgb{0x1a, 0x1a, 0x2e}
	colorMuted   = rgb{0x66, 0x66, 0x66}
	colorHeading = rgb{0x2d, 0x2d, 0x44}
	colorBody    = rgb{0x44, 0x44, 0x44}
	colorSymbol  = rgb{0x4a, 0x4a, 0x6a}
	colorFooter  = rgb{0x88, 0x88, 0x88}
)

// Composer PDF 报告生成器，构造后只读，可并发使用
type Composer struct {
	font     []byte
	compress bool
	now      func() time.Time
}

// Option 生成器选项
type Option func(*Composer)

// WithClock 替换生成时间来源
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithCompression 是否压缩页面内容流
func WithCompression(on bool) Option {
	return func(c *Composer) { c.compress = on }
}

// WithFont 使用给定的 TrueType 字体数据（需包含中文字形）
func WithFont(ttf []byte) Option {
	return func(c *Composer) { c.font = ttf }
}

// NewComposer 创建生成器。fontPath 为空时退回 Helvetica，中文无法显示但文档仍然有效。
func NewComposer(fontPath string, opts ...Option) (*Composer, error) {
	c := &Composer{
		compress: true,
		now:      time.Now,
	}
	if fontPath != "" {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("load report font: %w", err)
		}
		c.font = data
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.font) > 0 {
		if err := checkFont(c.font); err != nil {
			return nil, fmt.Errorf("invalid report font: %w", err)
		}
	}
	return c, nil
}

// Compose 排版并输出完整的 PDF 字节流。
// 要么返回可独立打开的完整文档，要么返回 ErrReportFailed，不会返回部分内容。
func (c *Composer) Compose(ctx context.Context, req model.ReportRequest) ([]byte, error) {
	pdf := c.layout(req)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: layout: %v", ErrReportFailed, err)
	}

	out, err := flush(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReportFailed, err)
	}
	return out, nil
}

func (c *Composer) layout(req model.ReportRequest) *fpdf.Fpdf {
	created := c.now()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCompression(c.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("dream_analyzer", true)

	family := coreFamily
	if len(c.font) > 0 {
		pdf.AddUTF8FontFromBytes(utf8Family, "", c.font)
		family = utf8Family
	}
	w := &writer{pdf: pdf, family: family}

	pdf.AddPage()

	w.text(colorTitle, "", 28, Title, "C", 0)
	w.space(28 * 0.5)
	w.text(colorMuted, "", 12, "生成时间："+created.Format(timestampFmt), "C", 0)
	w.space(12 * 2)

	w.section(HeadingDream, 12, req.Narrative)
	w.space(12 * 1.5)
	w.section(HeadingSchool, 12, req.School)
	w.space(12 * 1.5)
	w.section(HeadingAnalysis, 11, req.Analysis)

	symbols := req.Symbols
	if len(symbols) > symbol.MaxMatches {
		symbols = symbols[:symbol.MaxMatches]
	}
	if len(symbols) > 0 {
		w.space(12 * 1.5)
		w.heading(HeadingSymbols)
		for _, s := range symbols {
			w.text(colorSymbol, "", 12, fmt.Sprintf("• %s: %s", s.Symbol, s.Meaning), "L", 0)
			w.space(12 * 0.3)
		}
	}

	w.space(10 * 2)
	w.text(colorFooter, "", 10, Footer, "C", 0)

	return pdf
}

// writer 顺序写入各段落
type writer struct {
	pdf    *fpdf.Fpdf
	family string
}

func (w *writer) text(color rgb, style string, size float64, s, align string, lineGap float64) {
	w.pdf.SetTextColor(color.r, color.g, color.b)
	w.pdf.SetFont(w.family, style, size)
	w.pdf.MultiCell(0, size*1.2+lineGap, s, "", align, false)
}

func (w *writer) heading(s string) {
	w.text(colorHeading, "U", 18, s, "L", 0)
	w.space(18 * 0.5)
}

func (w *writer) section(heading string, size float64, body string) {
	w.heading(heading)
	w.text(colorBody, "", size, body, "L", 4)
}

func (w *writer) space(h float64) {
	w.pdf.Ln(h)
}

// flush 把文档写入管道并读到结束信号（EOF）为止，写入方与读取方都结束后才返回字节。
func flush(ctx context.Context, pdf *fpdf.Fpdf) ([]byte, error) {
	pr, pw := io.Pipe()
	stop := context.AfterFunc(ctx, func() {
		pr.CloseWithError(ctx.Err())
	})
	defer stop()

	var (
		g   errgroup.Group
		buf bytes.Buffer
	)
	g.Go(func() error {
		err := pdf.Output(pw)
		// nil 时读取方收到 EOF，即文档结束
		pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&buf, pr)
		if err != nil {
			pr.CloseWithError(err)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
