package generation

// every action the relay accepts, in display order
var Actions = []Action{
	ActionVariations,
	ActionTranslate,
	ActionRephrase,
	ActionLengthVariations,
	ActionGenerateVisual,
}

func (a Action) Valid() bool {
	switch a {
	case ActionVariations, ActionTranslate, ActionRephrase, ActionLengthVariations, ActionGenerateVisual:
		return true
	default:
		return false
	}
}

// reports whether the provider is asked for JSON rather than plain text
func (a Action) IsStructured() bool {
	switch a {
	case ActionVariations, ActionLengthVariations, ActionGenerateVisual:
		return true
	default:
		return false
	}
}

// empty or unrecognized values mean all buckets
func (l LengthType) Normalize() LengthType {
	switch l {
	case LengthSimple, LengthMedium, LengthLong:
		return l
	default:
		return LengthAll
	}
}

// empty or unrecognized values fall back to a flowchart
func (v VisualType) Normalize() VisualType {
	switch v {
	case VisualFlowchart, VisualMindmap, VisualSequence, VisualTimeline:
		return v
	default:
		return VisualFlowchart
	}
}

func (r *VariationsResult) IsDegraded() bool       { return r.Degraded }
func (r *TextResult) IsDegraded() bool             { return false }
func (r *LengthVariationsResult) IsDegraded() bool { return r.Degraded }
func (r *VisualResult) IsDegraded() bool           { return r.Degraded }

// bucket selected by the length type, nil for all
func (r *LengthVariationsResult) Bucket(l LengthType) []string {
	switch l {
	case LengthSimple:
		return r.Simple
	case LengthMedium:
		return r.Medium
	case LengthLong:
		return r.Long
	default:
		return nil
	}
}
