package moderation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	goahocorasick "github.com/anknown/ahocorasick"
)

const (
	// MaxMessageLength is the rune bound on a message body.
	MaxMessageLength = 1000

	// RedactionMarker replaces every scrubbed spam pattern.
	RedactionMarker = "[MODERATED]"
)

// blockedPhrases vetoes a message outright when present, case-insensitively.
// Promotional spam and explicit-content terms.
var blockedPhrases = []string{
	"spam", "buy now", "click here", "free money",
	"make money", "casino", "poker", "sex", "xxx",
}

var (
	urlPattern       = regexp.MustCompile(`(?i)https?://[-\w.]+`)
	symbolRunPattern = regexp.MustCompile(`[^\w\s]{5,}`)
)

// Result is a moderation verdict. Cleaned is always the scrubbed text, even
// when the verdict is negative; raw input never travels past this stage.
type Result struct {
	Allowed bool
	Cleaned string
}

// Moderator screens message bodies. It is stateless after construction and
// safe for concurrent use.
type Moderator struct {
	matcher *goahocorasick.Machine
}

// NewModerator builds the blocklist automaton.
func NewModerator() (*Moderator, error) {
	patterns := make([][]rune, len(blockedPhrases))
	for i, phrase := range blockedPhrases {
		patterns[i] = []rune(strings.ToLower(phrase))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m}, nil
}

// Moderate scrubs spam patterns out of text and decides whether the message
// may be persisted. The scrub runs regardless of the verdict.
func (m *Moderator) Moderate(text string) Result {
	cleaned := Scrub(text)

	if utf8.RuneCountInString(text) > MaxMessageLength {
		return Result{Allowed: false, Cleaned: cleaned}
	}

	if m.containsBlockedPhrase(text) {
		return Result{Allowed: false, Cleaned: cleaned}
	}

	return Result{Allowed: true, Cleaned: cleaned}
}

func (m *Moderator) containsBlockedPhrase(text string) bool {
	lowered := []rune(strings.ToLower(text))
	return len(m.matcher.MultiPatternSearch(lowered, true)) > 0
}

// Scrub replaces the three spam pattern classes with the redaction marker:
// embedded URLs, immediately repeated whole words, and runs of five or more
// consecutive symbol characters.
func Scrub(text string) string {
	scrubbed := urlPattern.ReplaceAllString(text, RedactionMarker)
	scrubbed = scrubRepeatedWords(scrubbed)
	return symbolRunPattern.ReplaceAllString(scrubbed, RedactionMarker)
}

type wordSpan struct {
	start, end int
	lowered    string
}

func isWordRune(r rune) bool {
	return r == '_' ||
		('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z')
}

// scrubRepeatedWords collapses whitespace-separated runs of the same word
// into a single redaction marker. Go's RE2 engine has no backreferences, so
// this is a token scan rather than a regex.
func scrubRepeatedWords(text string) string {
	runes := []rune(text)

	var words []wordSpan
	for i := 0; i < len(runes); {
		if !isWordRune(runes[i]) {
			i++
			continue
		}
		j := i
		for j < len(runes) && isWordRune(runes[j]) {
			j++
		}
		words = append(words, wordSpan{start: i, end: j, lowered: strings.ToLower(string(runes[i:j]))})
		i = j
	}

	spaceBetween := func(a, b wordSpan) bool {
		if a.end >= b.start {
			return false
		}
		for _, r := range runes[a.end:b.start] {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				return false
			}
		}
		return true
	}

	type span struct{ start, end int }
	var redact []span
	for i := 0; i+1 < len(words); {
		if words[i].lowered != words[i+1].lowered || !spaceBetween(words[i], words[i+1]) {
			i++
			continue
		}
		last := i + 1
		for last+1 < len(words) && words[last].lowered == words[last+1].lowered && spaceBetween(words[last], words[last+1]) {
			last++
		}
		redact = append(redact, span{start: words[i].start, end: words[last].end})
		i = last + 1
	}

	if len(redact) == 0 {
		return text
	}

	var b strings.Builder
	prev := 0
	for _, sp := range redact {
		b.WriteString(string(runes[prev:sp.start]))
		b.WriteString(RedactionMarker)
		prev = sp.end
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}
