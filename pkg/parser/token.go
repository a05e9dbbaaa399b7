package parser

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mfonda/simhash"
	"github.com/microcosm-cc/bluemonday"
	"github.com/surgebase/porter2"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrMalformedText = errors.New("malformed text")

// Normalizer turns raw document text into the ordered sequence of terms that
// gets indexed. Implementations must be safe for concurrent use.
type Normalizer interface {
	Normalize(text string) ([]string, error)
}

type NormalizerFunc func(text string) ([]string, error)

func (f NormalizerFunc) Normalize(text string) ([]string, error) {
	return f(text)
}

// TextNormalizer strips markup and punctuation, lowercases, removes English
// stop words and reduces every remaining word to its stem.
type TextNormalizer struct {
	policy    *bluemonday.Policy
	stopWords map[string]struct{}
}

var _ Normalizer = (*TextNormalizer)(nil)

func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{
		policy:    bluemonday.StripTagsPolicy().AddSpaceWhenStrippingTag(true),
		stopWords: newStopWordSet(),
	}
}

func (n *TextNormalizer) Normalize(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, ErrMalformedText
	}

	content := n.Sanitize(text)
	words := ParseTokens(content)
	terms := make([]string, 0, len(words))
	for _, word := range words {
		if _, ok := n.stopWords[word]; ok {
			continue
		}
		terms = append(terms, porter2.Stem(word))
	}
	return terms, nil
}

// Sanitize removes markup, decodes entities, drops every rune that is not a
// letter, digit, underscore or space, and lowercases the rest.
func (n *TextNormalizer) Sanitize(s string) string {
	content := n.policy.Sanitize(escapeStrayBrackets(s))
	content = xhtml.UnescapeString(content)
	var sb strings.Builder
	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			sb.WriteRune(r)
		}
	}
	return strings.ToLower(sb.String())
}

// tagPattern matches an opening, closing or self-closing tag at the start of
// the input. Attributes must carry a value.
var tagPattern = regexp.MustCompile(`^</?([a-zA-Z][a-zA-Z0-9]*)(?:\s+[a-zA-Z_:][-a-zA-Z0-9_:.]*\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>]+))*\s*/?>`)

// bluemonday drops the whole content of these elements.
var contentElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Title:    true,
	atom.Iframe:   true,
	atom.Noscript: true,
	atom.Noembed:  true,
	atom.Noframes: true,
	atom.Object:   true,
	atom.Frameset: true,
}

func isMarkupTag(name string) bool {
	a := atom.Lookup([]byte(strings.ToLower(name)))
	return a != 0 && !contentElements[a]
}

// escapeStrayBrackets escapes every '<' that does not open a known HTML tag,
// so plain text like "a<b" reaches the sanitizer as text.
func escapeStrayBrackets(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var sb strings.Builder
	for {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:i])
		s = s[i:]

		if m := tagPattern.FindStringSubmatch(s); m != nil && isMarkupTag(m[1]) {
			sb.WriteString(m[0])
			s = s[len(m[0]):]
			continue
		}
		sb.WriteString("&lt;")
		s = s[1:]
	}
}

func (n *TextNormalizer) IsStopWord(word string) bool {
	_, ok := n.stopWords[word]
	return ok
}

func ParseTokens(s string) []string {
	return strings.Fields(s)
}

// Fingerprint is the simhash of the normalized terms of a document.
func Fingerprint(terms []string) uint64 {
	return simhash.Simhash(simhash.NewWordFeatureSet([]byte(strings.Join(terms, " "))))
}
