// Package kb holds the static knowledge base and its keyword-overlap
// matcher. This is a fixed heuristic over a small in-memory record set, not
// a search index.
package kb

import (
	"strings"
	"time"
)

// matchThreshold is the minimum keyword-overlap score for stage four of the
// matcher. Below it the question is treated as not in the knowledge base.
const matchThreshold = 8

// multiKeywordBonus is added once when at least two keywords matched.
const multiKeywordBonus = 5

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "what": true,
	"when": true, "how": true, "why": true, "who": true, "which": true,
	"does": true, "did": true, "has": true, "have": true, "this": true,
	"that": true, "with": true, "from": true, "into": true, "your": true,
}

// ByID returns the entry with the given id.
func ByID(id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Topics returns the fixed topic names in catalog order.
func Topics() []string {
	return []string{
		TopicAccounts, TopicPDAs, TopicTokens,
		TopicTransactions, TopicWallets, TopicPayments,
	}
}

// ByTopic returns all entries of one topic in declaration order.
func ByTopic(topic string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

// QuizByTopic returns the topic's entries that carry quiz options.
func QuizByTopic(topic string) []Entry {
	var out []Entry
	for _, e := range ByTopic(topic) {
		if len(e.QuizOptions) > 0 {
			out = append(out, e)
		}
	}
	return out
}

// FindBestMatch resolves a free-form question to a record, or reports no
// match. Matching precedence, first hit wins:
//
//  1. exact equality with a record's question (normalized)
//  2. containment either direction
//  3. any two-word sliding-window phrase from the question found as a
//     substring of a record's question
//  4. keyword-overlap scoring, accepted only at or above the threshold
//
// The same normalized input always resolves to the same record; score ties
// go to the first maximum in declaration order.
func FindBestMatch(question string) (Entry, bool) {
	normalized := normalize(question)
	if normalized == "" {
		return Entry{}, false
	}

	// Stage 1: exact.
	for _, e := range entries {
		if normalize(e.Question) == normalized {
			return e, true
		}
	}

	// Stage 2: containment either direction.
	for _, e := range entries {
		q := normalize(e.Question)
		if strings.Contains(q, normalized) || strings.Contains(normalized, q) {
			return e, true
		}
	}

	keywords := extractKeywords(normalized)

	// Stage 3: two-word phrase window.
	for i := 0; i+1 < len(keywords); i++ {
		phrase := keywords[i] + " " + keywords[i+1]
		for _, e := range entries {
			if strings.Contains(normalize(e.Question), phrase) {
				return e, true
			}
		}
	}

	// Stage 4: keyword-overlap scoring.
	best := -1
	var bestEntry Entry
	for _, e := range entries {
		q := normalize(e.Question)
		score := 0
		matched := 0
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				score += len(kw)
				matched++
			}
		}
		if matched >= 2 {
			score += multiKeywordBonus
		}
		if score > best {
			best = score
			bestEntry = e
		}
	}

	if best < matchThreshold {
		return Entry{}, false
	}
	return bestEntry, true
}

// DailyPick returns the entry for a UTC date: index is day-of-year modulo
// the catalog size, so picks cycle through all entries as days advance.
func DailyPick(t time.Time) Entry {
	day := t.UTC().YearDay()
	return entries[day%len(entries)]
}

// Level names for the catalog view.
var levelNames = map[int]string{
	1: "Fundamentals",
	2: "Builder",
	3: "Power User",
}

// LevelName returns the display name for a catalog level.
func LevelName(level int) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return "Unknown"
}

// Levels returns the distinct catalog levels in ascending order.
func Levels() []int {
	return []int{1, 2, 3}
}

// ByLevel returns all entries of one level in declaration order.
func ByLevel(level int) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// extractKeywords drops stop words, words of two characters or fewer, and
// punctuation, keeping question word order.
func extractKeywords(normalized string) []string {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-'
	})

	var out []string
	for _, w := range fields {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}
