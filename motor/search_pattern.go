package motor

import (
	"fmt"
	"regexp"
	"strings"
)

// SearchMode defines the type of search to perform
type SearchMode int

const (
	PlainText SearchMode = iota
	Regex
)

func (m SearchMode) String() string {
	if m == Regex {
		return "regex"
	}
	return "text"
}

// compiledPattern holds a compiled search pattern
type compiledPattern struct {
	mode      SearchMode
	plainText string
	regex     *regexp.Regexp
}

// compilePattern lowercases plain text queries (index entries are already
// lowercase) and compiles regex queries case-insensitively.
func compilePattern(pattern string, mode SearchMode) (compiledPattern, error) {
	cp := compiledPattern{
		mode: mode,
	}

	if mode == Regex {
		regex, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return cp, fmt.Errorf("invalid regex pattern: %w", err)
		}
		cp.regex = regex
	} else {
		cp.plainText = strings.ToLower(pattern)
	}

	return cp, nil
}

// matches checks if haystack matches the compiled pattern
func matches(haystack string, pattern compiledPattern) bool {
	if pattern.mode == Regex {
		return pattern.regex.MatchString(haystack)
	}

	// plain text: use strings.contains (faster than regex)
	return strings.Contains(haystack, pattern.plainText)
}
