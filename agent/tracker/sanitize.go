package tracker

import "regexp"

var (
	strikeThroughPattern = regexp.MustCompile(`-(.*?)-`)
	colorSpanPattern     = regexp.MustCompile(`\{color:#[0-9a-fA-F]{6}\}(.*?)\{/color\}`)
	bgColorSpanPattern   = regexp.MustCompile(`\{bgColor:#[0-9a-fA-F]{6}\}(.*?)\{/bgColor\}`)
)

// Sanitize rewrites tracker markup into neutral tags: -text- becomes
// <crossedout>text</crossedout> and color/bgColor spans become
// <highlighted>text</highlighted>. Color values are dropped.
func Sanitize(raw string) string {
	out := strikeThroughPattern.ReplaceAllString(raw, `<crossedout>${1}</crossedout>`)
	out = colorSpanPattern.ReplaceAllString(out, `<highlighted>${1}</highlighted>`)
	out = bgColorSpanPattern.ReplaceAllString(out, `<highlighted>${1}</highlighted>`)
	return out
}

// sanitizeRaw applies Sanitize to a raw JSON value before it is decoded.
// Only hyphens and tags move, so a valid JSON string stays valid.
func sanitizeRaw(raw []byte) []byte {
	if len(raw) == 0 {
		return raw
	}
	return []byte(Sanitize(string(raw)))
}
