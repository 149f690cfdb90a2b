package core

import "regexp"

// Patterns stripped from comment bodies, applied in order. This is a denylist
// for the most common injection vectors, not an HTML sanitizer: anything not
// listed here passes through untouched.
var sanitizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)\s*on\w+\s*=\s*(?:"[^"]*"|'[^']*')`),
	regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe\s*>`),
	regexp.MustCompile(`(?is)<object\b[^>]*>.*?</object\s*>`),
	regexp.MustCompile(`(?i)<embed\b[^>]*>`),
}

// SanitizeContent removes script blocks, javascript: prefixes, inline event
// handlers and iframe/object/embed elements from text
func SanitizeContent(text string) string {
	for _, re := range sanitizePatterns {
		text = re.ReplaceAllString(text, "")
	}
	return text
}
