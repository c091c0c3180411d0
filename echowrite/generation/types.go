package generation

// maximum request text length, counted in unicode code points
const MaxTextLength = 10000

// selects the prompt template and response shape of one relay call
type Action string

const (
	ActionVariations       Action = "variations"
	ActionTranslate        Action = "translate"
	ActionRephrase         Action = "rephrase"
	ActionLengthVariations Action = "length-variations"
	ActionGenerateVisual   Action = "generate-visual"
)

type LengthType string

const (
	LengthSimple LengthType = "simple"
	LengthMedium LengthType = "medium"
	LengthLong   LengthType = "long"
	LengthAll    LengthType = "all"
)

// mermaid diagram kinds
type VisualType string

const (
	VisualFlowchart VisualType = "flowchart"
	VisualMindmap   VisualType = "mindmap"
	VisualSequence  VisualType = "sequence"
	VisualTimeline  VisualType = "timeline"
)

const DefaultTargetLanguage = "English"

// body of POST /api/v1/generate
type Request struct {
	Action         Action     `json:"action"`
	Text           string     `json:"text"`
	Style          string     `json:"style,omitempty"`
	TargetLanguage string     `json:"targetLanguage,omitempty"`
	LengthType     LengthType `json:"lengthType,omitempty"`
	VisualType     VisualType `json:"visualType,omitempty"`
}

// one labeled rewrite of the input
type Variation struct {
	Label   string `json:"label"`
	Text    string `json:"text"`
	Tone    string `json:"tone"`
	Changes string `json:"changes"`
}

// implemented by every action-specific response body
type Result interface {
	IsDegraded() bool
}

type VariationsResult struct {
	Variations []Variation `json:"variations"`
	Degraded   bool        `json:"degraded,omitempty"`
}

// response of translate and rephrase
type TextResult struct {
	Text string `json:"text"`
}

type LengthVariationsResult struct {
	Simple   []string `json:"simple"`
	Medium   []string `json:"medium"`
	Long     []string `json:"long"`
	Degraded bool     `json:"degraded,omitempty"`
}

type VisualResult struct {
	Title       string `json:"title"`
	MermaidCode string `json:"mermaidCode"`
	Description string `json:"description"`
	Degraded    bool   `json:"degraded,omitempty"`
}
