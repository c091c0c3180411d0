package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"codeberg.org/echowrite/server/echowrite/generation"
)

// checks the request text before any gate or relay work
func Validate(req generation.Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	if n := utf8.RuneCountInString(req.Text); n > generation.MaxTextLength {
		return fmt.Errorf("%w: text is %d characters, limit is %d", ErrInvalidInput, n, generation.MaxTextLength)
	}

	return nil
}

// maps a request to the prompt pair for its action
func Build(req generation.Request) (Prompt, error) {
	switch req.Action {
	case generation.ActionVariations:
		return buildVariations(req), nil
	case generation.ActionTranslate:
		return buildTranslate(req), nil
	case generation.ActionRephrase:
		return buildRephrase(req), nil
	case generation.ActionLengthVariations:
		return buildLengthVariations(req), nil
	case generation.ActionGenerateVisual:
		return buildVisual(req), nil
	default:
		return Prompt{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
}

func buildVariations(req generation.Request) Prompt {
	var builder strings.Builder

	builder.WriteString("You are a writing assistant that rewrites text in different styles.\n\n")
	builder.WriteString(fmt.Sprintf("Produce exactly %d variations of the user's text, one for each label, in this order: %s.\n",
		VariationCount, strings.Join(VariationLabels, ", ")))

	if style := strings.TrimSpace(req.Style); style != "" {
		builder.WriteString(fmt.Sprintf("Lean every variation towards a %s style while keeping its label's character.\n", style))
	}

	builder.WriteString(`
Each variation must keep the original meaning and the original language.

Response format:
- Return ONLY a JSON array, no markdown formatting, no explanations
- Each element is an object: {"label": string, "text": string, "tone": string, "changes": string}
- "tone" is one or two words describing the voice
- "changes" is one sentence explaining what was changed and why
`)

	return Prompt{
		System: builder.String(),
		User:   req.Text,
	}
}

func buildTranslate(req generation.Request) Prompt {
	language := strings.TrimSpace(req.TargetLanguage)
	if language == "" {
		language = generation.DefaultTargetLanguage
	}

	system := fmt.Sprintf(`You are a professional translator.

Translate the user's text into %s.

Guidelines:
- Preserve meaning, tone and formatting (line breaks, lists)
- Keep names, code and URLs unchanged
- Return ONLY the translated text, no quotes, no notes, no explanations
`, language)

	return Prompt{System: system, User: req.Text}
}

func buildRephrase(req generation.Request) Prompt {
	system := `You are a writing assistant.

Rephrase the user's text so it reads clearly and naturally.

Guidelines:
- Keep the original meaning and the original language
- Fix grammar and awkward phrasing
- Keep roughly the same length
- Return ONLY the rephrased text, no quotes, no notes, no explanations
`

	if style := strings.TrimSpace(req.Style); style != "" {
		system += fmt.Sprintf("- Use a %s style\n", style)
	}

	return Prompt{System: system, User: req.Text}
}

// length buckets described to the model
var lengthGuides = []struct {
	kind  generation.LengthType
	guide string
}{
	{generation.LengthSimple, "one short sentence with plain words"},
	{generation.LengthMedium, "two or three sentences"},
	{generation.LengthLong, "a full paragraph with added detail"},
}

func buildLengthVariations(req generation.Request) Prompt {
	requested := req.LengthType.Normalize()

	var builder strings.Builder

	builder.WriteString("You are a writing assistant that rewrites text at different lengths.\n\n")
	builder.WriteString("Keep the original meaning and the original language.\n\n")
	builder.WriteString("Buckets:\n")

	for _, bucket := range lengthGuides {
		if requested != generation.LengthAll && requested != bucket.kind {
			builder.WriteString(fmt.Sprintf("- %s: leave as an empty array\n", bucket.kind))
			continue
		}

		builder.WriteString(fmt.Sprintf("- %s: exactly %d alternatives, each %s\n",
			bucket.kind, LengthVariationCount, bucket.guide))
	}

	builder.WriteString(`
Response format:
- Return ONLY a JSON object, no markdown formatting, no explanations
- Shape: {"simple": [string], "medium": [string], "long": [string]}
`)

	return Prompt{System: builder.String(), User: req.Text}
}

// opening keyword of each mermaid diagram kind
var mermaidHeaders = map[generation.VisualType]string{
	generation.VisualFlowchart: "flowchart TD",
	generation.VisualMindmap:   "mindmap",
	generation.VisualSequence:  "sequenceDiagram",
	generation.VisualTimeline:  "timeline",
}

func buildVisual(req generation.Request) Prompt {
	visual := req.VisualType.Normalize()

	system := fmt.Sprintf(`You turn text into a Mermaid diagram.

Draw a %s that captures the main ideas of the user's text and how they relate.

Guidelines:
- The diagram source must start with "%s"
- Use short node labels and avoid characters that break Mermaid syntax (quotes, parentheses inside labels)
- Keep it under 20 nodes

Response format:
- Return ONLY a JSON object, no markdown formatting, no explanations
- Shape: {"title": string, "mermaidCode": string, "description": string}
- "description" is one or two sentences explaining the diagram
`, visual, mermaidHeaders[visual])

	return Prompt{System: system, User: req.Text}
}
