package normalize

import "strings"

// removes a surrounding markdown code fence, if there is exactly one pair
func stripFences(response string) string {
	trimmed := strings.TrimSpace(response)

	if strings.Count(trimmed, "```") != 2 {
		return trimmed
	}

	if code := extractFromFence(trimmed); code != "" {
		return code
	}

	// single-line form: ```json {...}```
	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```"), "```")
	inner = strings.TrimPrefix(inner, "json")

	return strings.TrimSpace(inner)
}

// extracts content from a single markdown fence pair.
// returns empty string if extraction fails.
func extractFromFence(response string) string {
	startIdx := strings.Index(response, "```")
	if startIdx == -1 {
		return ""
	}

	// find end of opening fence line (skip language identifier)
	afterStart := startIdx + 3
	newlineIdx := strings.Index(response[afterStart:], "\n")
	if newlineIdx == -1 {
		return ""
	}
	codeStart := afterStart + newlineIdx + 1

	// find closing fence
	endIdx := strings.Index(response[codeStart:], "```")
	if endIdx == -1 {
		return ""
	}

	return strings.TrimSpace(response[codeStart : codeStart+endIdx])
}
