package intake

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/carte/internal/domain"
)

// legacyKeys maps historical Japanese field names onto the canonical ones.
var legacyKeys = map[string]string{
	"業務ID":      "workId",
	"業務名":       "title",
	"カテゴリ":      "category",
	"実施頻度":      "frequency",
	"月間回数":      "monthlyCount",
	"総時間_分":     "totalMinutes",
	"工程数":       "numSteps",
	"主要ツール":     "primaryTool",
	"現状のボトルネック": "currentBottlenecks",
	"AsIsフロー要約": "asIsSummary",
	"ToBeフロー要約": "toBeSummary",
	"推奨ソリューション": "recommendedSolution",
	"推奨ツールカテゴリ": "recommendedToolCategory",
	"改善インパクト":   "improvementImpact",
	"自動化可能度":    "automationScore",
	"自動化可能度根拠":  "automationScoreRationale",
	"属人性":       "humanDependency",
	"属人性根拠":     "humanDependencyRationale",
	"備考":        "notes",
	"月間削減時間_分":  "monthlySavedMinutes",
	"削減時間詳細":    "savedMinuteDetails",
	"高度な提案":     "advancedProposal",
}

var legacyProposalKeys = map[string]string{
	"タイトル": "title",
	"説明":   "description",
}

var legacyHumanDependency = map[string]domain.HumanDependency{
	"高": domain.DependencyHigh,
	"中": domain.DependencyMedium,
	"低": domain.DependencyLow,
}

var legacyExecutor = map[string]domain.ExecutorType{
	"手動":  domain.ExecutorManual,
	"自動化": domain.ExecutorAutomated,
	"自動":  domain.ExecutorAutomated,
}

// legacyToolPrefixes is checked in order against Japanese category labels.
var legacyToolPrefixes = []struct {
	prefix   string
	category domain.ToolCategory
}{
	{"ノーコード", domain.ToolNoCode},
	{"生成AI", domain.ToolAIChat},
	{"カスタムAI", domain.ToolCustomAIChat},
	{"GAS", domain.ToolGAS},
	{"システム開発", domain.ToolSystemDevelopment},
	{"コード開発", domain.ToolSystemDevelopment},
	{"その他", domain.ToolOther},
}

var integerKeys = []string{"monthlyCount", "totalMinutes", "numSteps", "monthlySavedMinutes", "numberOfPeople", "estimatedInternalCostJPY"}

var stepIntegerKeys = []string{"stepNo", "minutes"}

// Normalize rewrites a raw record payload into the canonical shape:
// legacy keys are renamed when the canonical key is absent, legacy enum
// values are mapped, integer fields given as strings or floats are
// coerced, and automationScore is clamped to [0,100]. Unknown enum
// values are left as they are.
func Normalize(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if _, legacy := legacyKeys[k]; !legacy {
			out[k] = v
		}
	}
	for legacy, canonical := range legacyKeys {
		v, ok := raw[legacy]
		if !ok {
			continue
		}
		if _, exists := out[canonical]; !exists {
			out[canonical] = v
		}
	}

	if p, ok := out["advancedProposal"].(map[string]any); ok {
		out["advancedProposal"] = renameKeys(p, legacyProposalKeys)
	}
	if s, ok := out["humanDependency"].(string); ok {
		if mapped, ok := legacyHumanDependency[strings.TrimSpace(s)]; ok {
			out["humanDependency"] = string(mapped)
		}
	}
	if s, ok := out["recommendedToolCategory"].(string); ok {
		out["recommendedToolCategory"] = string(toolCategory(s))
	}
	if s, ok := out["currentBottlenecks"].(string); ok {
		out["currentBottlenecks"] = []any{s}
	}

	for _, k := range integerKeys {
		coerceIntField(out, k)
	}
	if score, ok := out["automationScore"]; ok {
		if n, ok := toInt(score); ok {
			out["automationScore"] = max(0, min(100, n))
		}
	}

	out["asIsSteps"] = normalizeSteps(out["asIsSteps"], nil)
	out["toBeSteps"] = normalizeSteps(out["toBeSteps"], func(step map[string]any) {
		if s, ok := step["executorType"].(string); ok {
			if mapped, ok := legacyExecutor[strings.TrimSpace(s)]; ok {
				step["executorType"] = string(mapped)
			}
		}
	})

	delete(out, "totalWorkloadMinutesPerMonth")
	return out
}

// DecodeRecord converts a normalized payload into a WorkRecord.
func DecodeRecord(payload map[string]any) (*domain.WorkRecord, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var rec domain.WorkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.CurrentBottlenecks == nil {
		rec.CurrentBottlenecks = []string{}
	}
	if rec.AsIsSteps == nil {
		rec.AsIsSteps = []domain.AsIsStep{}
	}
	if rec.ToBeSteps == nil {
		rec.ToBeSteps = []domain.ToBeStep{}
	}
	return &rec, nil
}

func toolCategory(s string) domain.ToolCategory {
	c := domain.ToolCategory(strings.TrimSpace(s))
	if c.Valid() {
		return c
	}
	for _, rule := range legacyToolPrefixes {
		if strings.HasPrefix(string(c), rule.prefix) {
			return rule.category
		}
	}
	return c
}

func normalizeSteps(v any, fix func(map[string]any)) any {
	steps, ok := v.([]any)
	if !ok {
		return v
	}
	for _, s := range steps {
		step, ok := s.(map[string]any)
		if !ok {
			continue
		}
		for _, k := range stepIntegerKeys {
			coerceIntField(step, k)
		}
		if fix != nil {
			fix(step)
		}
	}
	return steps
}

func renameKeys(m map[string]any, names map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if canonical, ok := names[k]; ok {
			if _, exists := m[canonical]; exists {
				continue
			}
			k = canonical
		}
		out[k] = v
	}
	return out
}

func coerceIntField(m map[string]any, key string) {
	v, ok := m[key]
	if !ok || v == nil {
		return
	}
	if n, ok := toInt(v); ok {
		m[key] = n
	}
}

// toInt accepts JSON numbers and numeric strings such as "75", "75.4" or
// "30分"; a trailing non-numeric unit is ignored.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(math.Round(n)), true
	case int:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	case string:
		s := strings.TrimSpace(n)
		end := 0
		for end < len(s) && (s[end] == '-' || s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
			end++
		}
		f, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	default:
		return 0, false
	}
}
