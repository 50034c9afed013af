// Package prompt 按解读流派组装发送给大模型的提示词。
package prompt

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/symbol"
)

//go:embed schools.yaml
var schoolsYAML []byte

const (
	SchoolFreud = "弗洛伊德式"
	SchoolJung  = "荣格式"

	// DefaultSchool 未知流派回退到的流派
	DefaultSchool = SchoolJung
)

var ErrInvalidProfiles = errors.New("invalid school profiles")

// Stance 流派的分析立场，仅作为数据描述，不参与逻辑
type Stance struct {
	Focus     []string `yaml:"focus" json:"focus"`
	Rationale string   `yaml:"rationale" json:"rationale"`
}

// Profile 解读流派
type Profile struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Icon        string `yaml:"icon" json:"icon"`
	Description string `yaml:"description" json:"desc"`
	Stance      Stance `yaml:"stance" json:"stance"`
	Template    string `yaml:"template" json:"-"`

	// SystemInstruction 嵌入符号库后的系统提示词
	SystemInstruction string `yaml:"-" json:"-"`
}

// Prompt 一次解析的两段消息
type Prompt struct {
	SystemInstruction string
	UserMessage       string
}

type profileBook struct {
	Default string    `yaml:"default"`
	Schools []Profile `yaml:"schools"`
}

// Composer 持有渲染好的流派提示词，构造后只读
type Composer struct {
	profiles  []Profile
	byID      map[string]int
	defaultID string
}

// NewComposer 使用内置流派配置和给定符号库构造 Composer
func NewComposer(lexicon *symbol.Lexicon) (*Composer, error) {
	return newComposer(lexicon, schoolsYAML)
}

func newComposer(lexicon *symbol.Lexicon, data []byte) (*Composer, error) {
	if lexicon == nil {
		return nil, fmt.Errorf("%w: nil lexicon", ErrInvalidProfiles)
	}
	var book profileBook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfiles, err)
	}
	if len(book.Schools) == 0 {
		return nil, fmt.Errorf("%w: no schools", ErrInvalidProfiles)
	}

	serialized, err := SerializeLexicon(lexicon)
	if err != nil {
		return nil, err
	}

	c := &Composer{
		profiles:  make([]Profile, 0, len(book.Schools)),
		byID:      make(map[string]int, len(book.Schools)),
		defaultID: book.Default,
	}
	for _, p := range book.Schools {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: school without id", ErrInvalidProfiles)
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate school %s", ErrInvalidProfiles, p.ID)
		}
		tmpl, err := template.New(p.ID).Option("missingkey=error").Parse(p.Template)
		if err != nil {
			return nil, fmt.Errorf("%w: template %s: %v", ErrInvalidProfiles, p.ID, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, struct{ Lexicon string }{serialized}); err != nil {
			return nil, fmt.Errorf("%w: render %s: %v", ErrInvalidProfiles, p.ID, err)
		}
		p.SystemInstruction = buf.String()

		c.byID[p.ID] = len(c.profiles)
		c.profiles = append(c.profiles, p)
	}
	if _, ok := c.byID[c.defaultID]; !ok {
		return nil, fmt.Errorf("%w: default school %q not defined", ErrInvalidProfiles, c.defaultID)
	}
	return c, nil
}

var defaultComposer = sync.OnceValue(func() *Composer {
	c, err := NewComposer(symbol.DefaultLexicon())
	if err != nil {
		panic(fmt.Sprintf("内置流派配置无效: %v", err))
	}
	return c
})

// DefaultComposer 基于内置符号库与内置流派
func DefaultComposer() *Composer {
	return defaultComposer()
}

// ResolveProfile 查找流派；找不到时回退到默认流派（荣格式）。
// 这是有意的降级策略：未知或拼写不同的流派不报错，而是按默认流派解析。
func (c *Composer) ResolveProfile(id string) Profile {
	p, _ := c.Resolved(id)
	return p
}

// Resolved 同 ResolveProfile，第二个返回值表示是否命中了请求的流派
func (c *Composer) Resolved(id string) (Profile, bool) {
	if i, ok := c.byID[id]; ok {
		return c.profiles[i], true
	}
	return c.profiles[c.byID[c.defaultID]], false
}

// Compose 生成系统提示词与用户消息。梦境描述原样嵌入，不做截断或过滤。
func (c *Composer) Compose(school, narrative string) Prompt {
	return Prompt{
		SystemInstruction: c.ResolveProfile(school).SystemInstruction,
		UserMessage:       UserMessage(narrative),
	}
}

// Profiles 按配置顺序列出全部流派
func (c *Composer) Profiles() []Profile {
	out := make([]Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// DefaultID 默认流派
func (c *Composer) DefaultID() string {
	return c.defaultID
}

// UserMessage 用户消息：梦境描述加固定的解析要求
func UserMessage(narrative string) string {
	return "【梦境描述】：" + narrative + "\n\n请结合上述梦境符号知识库，对这个梦境进行深度解析。"
}

// SerializeLexicon 把符号库按顺序序列化为两空格缩进的 JSON 对象
func SerializeLexicon(lexicon *symbol.Lexicon) (string, error) {
	entries := lexicon.Entries()

	var sb strings.Builder
	sb.WriteString("{\n")
	for i, e := range entries {
		k, err := jsonString(e.Symbol)
		if err != nil {
			return "", err
		}
		v, err := jsonString(e.Meaning)
		if err != nil {
			return "", err
		}
		sb.WriteString("  ")
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v)
		if i < len(entries)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("}")
	return sb.String(), nil
}

func jsonString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
