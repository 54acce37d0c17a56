package reconcile

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// DefaultThreshold is the minimum similarity a fuzzy match must reach.
const DefaultThreshold = 0.85

// TitleMatcher resolves a file name to the most similar row title.
type TitleMatcher interface {
	Match(candidate string) (MatchResult, bool)
}

type choice struct {
	rowNumber int
	title     string
	key       string
}

// Matcher performs token-order-independent fuzzy matching against a fixed set
// of normalized row titles.
type Matcher struct {
	// threshold is kept on the 0-100 scale used by TokenSortRatio.
	threshold float64
	choices   []choice
}

// NewMatcher indexes rows whose titles normalize to a non-empty key.
// Construction order decides ties.
func NewMatcher(rows []LedgerRow, threshold float64) *Matcher {
	m := &Matcher{
		threshold: threshold * 100,
		choices:   make([]choice, 0, len(rows)),
	}
	seen := make(map[int]int, len(rows))
	for _, row := range rows {
		if row.Title == "" {
			continue
		}
		key := Normalize(row.Title)
		if key == "" {
			continue
		}
		c := choice{rowNumber: row.RowNumber, title: row.Title, key: sortTokens(key)}
		// A repeated row number replaces the earlier entry in place.
		if i, ok := seen[row.RowNumber]; ok {
			m.choices[i] = c
			continue
		}
		seen[row.RowNumber] = len(m.choices)
		m.choices = append(m.choices, c)
	}
	return m
}

// Len returns the number of indexed titles.
func (m *Matcher) Len() int {
	return len(m.choices)
}

// Match returns the best scoring row for candidate, or false when the
// candidate normalizes to nothing, there are no choices, or the best score
// is below the threshold.
func (m *Matcher) Match(candidate string) (MatchResult, bool) {
	query := Normalize(candidate)
	if query == "" || len(m.choices) == 0 {
		return MatchResult{}, false
	}
	query = sortTokens(query)

	best := -1
	bestScore := -1.0
	for i, c := range m.choices {
		score := ratio(query, c.key)
		if score > bestScore {
			best, bestScore = i, score
			if score == 100 {
				break
			}
		}
	}

	if best < 0 || bestScore < m.threshold {
		return MatchResult{}, false
	}

	c := m.choices[best]
	return MatchResult{
		RowNumber: c.rowNumber,
		RowTitle:  c.title,
		Score:     bestScore / 100,
	}, true
}

// TokenSortRatio scores two strings 0-100 after sorting their whitespace
// separated tokens, so word order does not affect the result.
func TokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio is the normalized indel similarity over runes:
// 100 * 2*LCS / (len(a)+len(b)).
func ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*edlib.LCS(a, b)) / float64(total)
}
