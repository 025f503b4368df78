package match

import "strings"

// Pattern is a compiled '*' wildcard matcher.
// Matching is case-insensitive so user-typed filters hit snake_case names.
type Pattern struct {
	parts         []string
	anchoredStart bool
	anchoredEnd   bool
	matchAll      bool
}

// Compile compiles pattern into a reusable wildcard matcher.
// Params: pattern may contain '*' wildcards.
// Returns: compiled matcher and false when pattern is empty.
func Compile(pattern string) (Pattern, bool) {
	p := strings.ToLower(strings.TrimSpace(pattern))
	if p == "" {
		return Pattern{}, false
	}
	if p == "*" {
		return Pattern{matchAll: true}, true
	}

	return Pattern{
		parts:         strings.Split(p, "*"),
		anchoredStart: !strings.HasPrefix(p, "*"),
		anchoredEnd:   !strings.HasSuffix(p, "*"),
	}, true
}

// Match evaluates the compiled wildcard pattern against value.
// Params: value is compared text, folded to lower case.
// Returns: true on pattern match.
func (p Pattern) Match(value string) bool {
	if p.matchAll {
		return true
	}
	if len(p.parts) == 0 {
		return false
	}

	value = strings.ToLower(value)
	cursor := 0
	partIndex := 0

	if p.anchoredStart {
		startPart := p.parts[0]
		if !strings.HasPrefix(value, startPart) {
			return false
		}
		cursor = len(startPart)
		partIndex = 1
	}

	lastIndex := len(p.parts) - 1
	loopLimit := len(p.parts)
	if p.anchoredEnd {
		loopLimit = lastIndex
	}

	for ; partIndex < loopLimit; partIndex++ {
		segment := p.parts[partIndex]
		if segment == "" {
			continue
		}
		offset := strings.Index(value[cursor:], segment)
		if offset < 0 {
			return false
		}
		cursor += offset + len(segment)
	}

	if p.anchoredEnd {
		endPart := p.parts[lastIndex]
		if endPart == "" {
			return true
		}
		return strings.HasSuffix(value, endPart)
	}

	return true
}

// Wildcard evaluates a '*' wildcard pattern against value in one call.
// Params: pattern may contain '*' wildcards; value is compared text.
// Returns: true on pattern match.
func Wildcard(pattern, value string) bool {
	compiled, ok := Compile(pattern)
	if !ok {
		return false
	}
	return compiled.Match(value)
}
