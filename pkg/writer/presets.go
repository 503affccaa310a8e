package writer

import (
	"slices"

	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

type staticPresets []provider.PresetTemplate

func (s staticPresets) Presets() []provider.PresetTemplate {
	return slices.Clone(s)
}

func builtinPresets(t tool.Tool) PresetSource {
	switch t {
	case tool.Codex:
		return staticPresets{
			{Name: "OpenAI", BaseURL: "https://api.openai.com/v1", Description: "Official OpenAI API", IsBuiltIn: true},
			{Name: "OpenRouter", BaseURL: "https://openrouter.ai/api/v1", Description: "OpenRouter multi-model gateway", IsBuiltIn: true},
			{Name: "DeepSeek", BaseURL: "https://api.deepseek.com/v1", Description: "DeepSeek OpenAI-compatible API", IsBuiltIn: true},
		}
	case tool.Claude:
		return staticPresets{
			{Name: "Anthropic", BaseURL: "https://api.anthropic.com", Description: "Official Anthropic API", IsBuiltIn: true},
			{Name: "Kimi", BaseURL: "https://api.moonshot.cn/anthropic", Description: "Moonshot Kimi, Anthropic-compatible endpoint", IsBuiltIn: true},
			{Name: "GLM", BaseURL: "https://open.bigmodel.cn/api/anthropic", Description: "Zhipu GLM, Anthropic-compatible endpoint", IsBuiltIn: true},
			{Name: "DeepSeek", BaseURL: "https://api.deepseek.com/anthropic", Description: "DeepSeek, Anthropic-compatible endpoint", IsBuiltIn: true},
		}
	case tool.Gemini:
		return staticPresets{
			{Name: "Google AI Studio", BaseURL: "https://generativelanguage.googleapis.com", Description: "Official Gemini API", IsBuiltIn: true},
		}
	case tool.OpenCode:
		return staticPresets{
			{Name: "OpenRouter", BaseURL: "https://openrouter.ai/api/v1", Description: "OpenRouter multi-model gateway", IsBuiltIn: true},
			{Name: "DeepSeek", BaseURL: "https://api.deepseek.com/v1", Description: "DeepSeek OpenAI-compatible API", IsBuiltIn: true},
		}
	case tool.OpenClaw:
		return staticPresets{
			{Name: "OpenRouter", BaseURL: "https://openrouter.ai/api/v1", Description: "OpenRouter multi-model gateway", IsBuiltIn: true},
			{Name: "Kimi", BaseURL: "https://api.moonshot.cn/v1", Description: "Moonshot Kimi OpenAI-compatible API", IsBuiltIn: true},
		}
	default:
		return staticPresets{}
	}
}
