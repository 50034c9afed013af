// Package symbol 维护梦境符号库，并在梦境描述中识别符号。
package symbol

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"
)

//go:embed lexicon.yaml
var lexiconYAML []byte

var (
	ErrEmptyLexicon  = errors.New("symbol lexicon is empty")
	ErrEmptyToken    = errors.New("symbol token is empty")
	ErrDuplicateItem = errors.New("duplicate symbol token")
)

// Lexicon 只读的有序符号库，插入顺序即匹配优先级。
// 构造完成后不再修改，可在多个请求间无锁并发读取。
type Lexicon struct {
	entries []model.Symbol
	index   map[string]int
}

// NewLexicon 以给定顺序构造符号库
func NewLexicon(entries []model.Symbol) (*Lexicon, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyLexicon
	}

	l := &Lexicon{
		entries: make([]model.Symbol, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Symbol == "" {
			return nil, ErrEmptyToken
		}
		if _, ok := l.index[e.Symbol]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, e.Symbol)
		}
		l.index[e.Symbol] = len(l.entries)
		l.entries = append(l.entries, e)
	}
	return l, nil
}

// ParseLexicon 从 YAML 序列解析符号库
func ParseLexicon(data []byte) (*Lexicon, error) {
	var entries []model.Symbol
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	return NewLexicon(entries)
}

var defaultLexicon = sync.OnceValue(func() *Lexicon {
	l, err := ParseLexicon(lexiconYAML)
	if err != nil {
		panic(fmt.Sprintf("内置符号库无效: %v", err))
	}
	return l
})

// DefaultLexicon 返回内置符号库，首次调用时加载
func DefaultLexicon() *Lexicon {
	return defaultLexicon()
}

// Entries 按插入顺序返回全部符号（副本）
func (l *Lexicon) Entries() []model.Symbol {
	out := make([]model.Symbol, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lookup 查询符号释义
func (l *Lexicon) Lookup(token string) (string, bool) {
	i, ok := l.index[token]
	if !ok {
		return "", false
	}
	return l.entries[i].Meaning, true
}

func (l *Lexicon) Len() int {
	return len(l.entries)
}
