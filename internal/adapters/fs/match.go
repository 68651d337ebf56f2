package fs

import (
	"regexp"
	"strings"
	"sync"
)

// Matcher tests slash-separated relative paths against shell-style patterns.
//
// Patterns follow fnmatch rules: "*" matches any run of characters including "/",
// "?" matches one character and "[...]" matches a character class ("[!...]" negates).
type Matcher struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewMatcher creates a new Matcher.
func NewMatcher() *Matcher {
	return &Matcher{cache: make(map[string]*regexp.Regexp)}
}

// Match reports whether rel matches any of the patterns.
func (m *Matcher) Match(patterns []string, rel string) bool {
	for _, p := range patterns {
		if m.compile(p).MatchString(rel) {
			return true
		}
	}
	return false
}

func (m *Matcher) compile(pattern string) *regexp.Regexp {
	m.mu.Lock()
	defer m.mu.Unlock()

	if re, ok := m.cache[pattern]; ok {
		return re
	}
	re := regexp.MustCompile(translate(pattern))
	m.cache[pattern] = re
	return re
}

// translate converts a shell pattern into an anchored regular expression.
// An unterminated "[" is taken literally.
func translate(pattern string) string {
	var b strings.Builder
	b.WriteString(`^`)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := classEnd(pattern, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(class(pattern[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(`$`)
	return b.String()
}

func classEnd(pattern string, start int) int {
	j := start + 1
	if j < len(pattern) && pattern[j] == '!' {
		j++
	}
	if j < len(pattern) && pattern[j] == ']' {
		j++
	}
	for ; j < len(pattern); j++ {
		if pattern[j] == ']' {
			return j
		}
	}
	return -1
}

func class(body string) string {
	negate := strings.HasPrefix(body, "!")
	if negate {
		body = body[1:]
	}
	body = strings.ReplaceAll(body, `\`, `\\`)
	body = strings.ReplaceAll(body, `^`, `\^`)
	body = strings.ReplaceAll(body, `[`, `\[`)
	if strings.HasPrefix(body, "]") {
		body = `\]` + body[1:]
	}
	if negate {
		return `[^` + body + `]`
	}
	return `[` + body + `]`
}
