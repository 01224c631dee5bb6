package domain

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type HumanDependency string

const (
	DependencyHigh   HumanDependency = "high"
	DependencyMedium HumanDependency = "medium"
	DependencyLow    HumanDependency = "low"
)

// Valid reports whether d is one of the three known levels.
func (d HumanDependency) Valid() bool {
	switch d {
	case DependencyHigh, DependencyMedium, DependencyLow:
		return true
	}
	return false
}

type ExecutorType string

const (
	ExecutorManual    ExecutorType = "manual"
	ExecutorAutomated ExecutorType = "automated"
)

func (e ExecutorType) Valid() bool {
	return e == ExecutorManual || e == ExecutorAutomated
}

type ToolCategory string

const (
	ToolAIChat            ToolCategory = "aiChat"
	ToolNoCode            ToolCategory = "noCodeTool"
	ToolCustomAIChat      ToolCategory = "customAiChat"
	ToolGAS               ToolCategory = "gas"
	ToolSystemDevelopment ToolCategory = "systemDevelopment"
	ToolOther             ToolCategory = "other"
)

// ToolCategories lists every category in display order.
var ToolCategories = []ToolCategory{
	ToolAIChat,
	ToolNoCode,
	ToolCustomAIChat,
	ToolGAS,
	ToolSystemDevelopment,
	ToolOther,
}

func (c ToolCategory) Valid() bool {
	for _, known := range ToolCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns the Japanese display name used in exports and the dashboard.
// Unknown categories are shown as その他.
func (c ToolCategory) Label() string {
	switch c {
	case ToolAIChat:
		return "生成AIチャット"
	case ToolNoCode:
		return "ノーコード開発"
	case ToolCustomAIChat:
		return "カスタムAIチャット"
	case ToolGAS:
		return "GAS"
	case ToolSystemDevelopment:
		return "システム開発"
	default:
		return "その他"
	}
}

// Priority is the A–D band derived from an automation score.
type Priority string

const (
	PriorityA Priority = "A"
	PriorityB Priority = "B"
	PriorityC Priority = "C"
	PriorityD Priority = "D"
)

// Priorities lists the bands from highest to lowest.
var Priorities = []Priority{PriorityA, PriorityB, PriorityC, PriorityD}

// PriorityForScore maps an automation score onto its band.
func PriorityForScore(score int) Priority {
	switch {
	case score >= 80:
		return PriorityA
	case score >= 60:
		return PriorityB
	case score >= 40:
		return PriorityC
	default:
		return PriorityD
	}
}
