package normalize

import (
	"encoding/json"
	"strings"

	"codeberg.org/echowrite/server/echowrite/generation"
)

// labels used when the provider output cannot be parsed
const (
	fallbackLabel   = "Variation"
	fallbackTone    = "neutral"
	fallbackChanges = "Returned as received; the response could not be parsed."
	fallbackTitle   = "Diagram"
)

// turns raw provider output into the action's result shape; never fails
func Normalize(req generation.Request, raw string) generation.Result {
	switch req.Action {
	case generation.ActionVariations:
		return variations(raw)
	case generation.ActionLengthVariations:
		return lengthVariations(raw, req.LengthType.Normalize())
	case generation.ActionGenerateVisual:
		return visual(raw)
	default:
		return &generation.TextResult{Text: strings.TrimSpace(raw)}
	}
}

func variations(raw string) *generation.VariationsResult {
	var items []generation.Variation

	if !decode(raw, '[', ']', &items) {
		// some models wrap the array in an object
		var wrapped struct {
			Variations []generation.Variation `json:"variations"`
		}

		if decode(raw, '{', '}', &wrapped) {
			items = wrapped.Variations
		}
	}

	if len(items) == 0 {
		return &generation.VariationsResult{
			Variations: []generation.Variation{{
				Label:   fallbackLabel,
				Text:    strings.TrimSpace(raw),
				Tone:    fallbackTone,
				Changes: fallbackChanges,
			}},
			Degraded: true,
		}
	}

	return &generation.VariationsResult{Variations: items}
}

func lengthVariations(raw string, requested generation.LengthType) *generation.LengthVariationsResult {
	var result generation.LengthVariationsResult

	ok := decode(raw, '{', '}', &result)
	if !ok || len(result.Simple)+len(result.Medium)+len(result.Long) == 0 {
		result = generation.LengthVariationsResult{Degraded: true}

		text := []string{strings.TrimSpace(raw)}

		switch requested {
		case generation.LengthSimple:
			result.Simple = text
		case generation.LengthLong:
			result.Long = text
		default:
			result.Medium = text
		}
	}

	// keep every bucket an array on the wire
	if result.Simple == nil {
		result.Simple = []string{}
	}

	if result.Medium == nil {
		result.Medium = []string{}
	}

	if result.Long == nil {
		result.Long = []string{}
	}

	return &result
}

func visual(raw string) *generation.VisualResult {
	var result generation.VisualResult

	if !decode(raw, '{', '}', &result) || (result.MermaidCode == "" && result.Description == "") {
		return &generation.VisualResult{
			Title:       fallbackTitle,
			Description: strings.TrimSpace(raw),
			Degraded:    true,
		}
	}

	if inner := extractFromFence(result.MermaidCode); inner != "" {
		result.MermaidCode = inner
	}

	result.MermaidCode = strings.TrimSpace(result.MermaidCode)

	return &result
}

// strips fences and parses; falls back to the outermost open..close span
func decode(raw string, open, closing byte, target any) bool {
	body := stripFences(raw)

	if json.Unmarshal([]byte(body), target) == nil {
		return true
	}

	start := strings.IndexByte(body, open)
	end := strings.LastIndexByte(body, closing)

	if start == -1 || end <= start {
		return false
	}

	return json.Unmarshal([]byte(body[start:end+1]), target) == nil
}
