package symbol

import (
	"strings"

	"github.com/iWorld-y/dream_analyzer/app/dream_analyzer/pkg/model"
)

// MaxMatches 单次匹配返回的符号上限
const MaxMatches = 5

// Match 按符号库顺序找出在梦境描述中出现的符号。
//
// 规则是字面子串包含：区分大小写，不分词，不判断词边界，
// 因此符号作为更长词语的一部分出现时同样计入。结果按符号库顺序
// （而非在描述中出现的位置）截取前 MaxMatches 个。
func (l *Lexicon) Match(narrative string) []model.Symbol {
	found := make([]model.Symbol, 0, MaxMatches)
	if narrative == "" {
		return found
	}
	for _, e := range l.entries {
		if !strings.Contains(narrative, e.Symbol) {
			continue
		}
		found = append(found, e)
		if len(found) == MaxMatches {
			break
		}
	}
	return found
}

// Match 使用内置符号库匹配
func Match(narrative string) []model.Symbol {
	return DefaultLexicon().Match(narrative)
}
