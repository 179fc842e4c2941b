package search

import (
	"regexp"
	"strings"
)

// AllValue is the filter value meaning "no filter"
const AllValue = "all"

// Query is a parsed search bar input: free text plus categorical filters
type Query struct {
	Text    string            // Free text, matched as a case-insensitive substring
	Filters map[string]string // Filter key -> exact value
	Raw     string            // Original query string
}

// IsEmpty reports whether the query narrows nothing
func (q Query) IsEmpty() bool {
	return q.Text == "" && len(q.Filters) == 0
}

// Parser turns search bar input into a Query. Only field:value tokens whose
// field is one of the known filter keys become filters; everything else is
// free text.
type Parser struct {
	keys          map[string]bool
	fieldPattern  *regexp.Regexp
	quotedPattern *regexp.Regexp
}

// NewParser creates a parser that recognizes the given filter keys
func NewParser(filterKeys ...string) *Parser {
	keys := make(map[string]bool, len(filterKeys))
	for _, k := range filterKeys {
		keys[strings.ToLower(k)] = true
	}
	return &Parser{
		keys:          keys,
		fieldPattern:  regexp.MustCompile(`^([\w-]+):(.+)$`),
		quotedPattern: regexp.MustCompile(`^"([^"]*)"$`),
	}
}

// Parse parses a search query string into a Query object. Free text keeps
// the input's own spacing once the filter tokens are cut out.
func (p *Parser) Parse(input string) Query {
	query := Query{
		Raw:     input,
		Filters: map[string]string{},
	}

	var text strings.Builder
	last, cut := 0, false
	for _, sp := range p.tokenSpans(input) {
		token := input[sp.start:sp.end]
		matches := p.fieldPattern.FindStringSubmatch(token)
		if len(matches) != 3 || !p.keys[strings.ToLower(matches[1])] {
			continue
		}
		key := strings.ToLower(matches[1])
		value := p.unquote(matches[2])
		if value == "" || strings.EqualFold(value, AllValue) {
			delete(query.Filters, key)
		} else {
			query.Filters[key] = value
		}
		text.WriteString(input[last:sp.start])
		last = skipBlanks(input, sp.end)
		cut = true
	}
	text.WriteString(input[last:])

	free := strings.ReplaceAll(text.String(), `"`, "")
	if cut || strings.TrimSpace(free) == "" {
		free = strings.TrimSpace(free)
	}
	query.Text = free
	return query
}

type span struct{ start, end int }

// tokenize splits the input into tokens, keeping quoted phrases together
func (p *Parser) tokenize(input string) []string {
	var tokens []string
	for _, sp := range p.tokenSpans(input) {
		tokens = append(tokens, input[sp.start:sp.end])
	}
	return tokens
}

// tokenSpans returns the byte ranges of the tokens in input
func (p *Parser) tokenSpans(input string) []span {
	var spans []span
	start := -1
	inQuotes := false

	for i, r := range input {
		if isBlank(r) && !inQuotes {
			if start >= 0 {
				spans = append(spans, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
		if r == '"' {
			inQuotes = !inQuotes
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(input)})
	}
	return spans
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// unquote removes quotes from a string if present
func (p *Parser) unquote(s string) string {
	if matches := p.quotedPattern.FindStringSubmatch(s); len(matches) == 2 {
		return matches[1]
	}
	// field:"two words" keeps its quotes inside the value
	return strings.Trim(s, `"`)
}
