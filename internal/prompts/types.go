package prompts

import "errors"

var (
	// text empty, whitespace only or over the length limit
	ErrInvalidInput = errors.New("invalid input")

	// action outside the recognized set
	ErrUnknownAction = errors.New("unknown action")
)

// system and user message pair sent to the AI relay
type Prompt struct {
	System string
	User   string
}

// number of rewrites requested per action
const (
	VariationCount       = 8
	LengthVariationCount = 5
)

// labels requested for variations, one per rewrite
var VariationLabels = []string{
	"Formal",
	"Casual",
	"Concise",
	"Persuasive",
	"Friendly",
	"Professional",
	"Creative",
	"Academic",
}
