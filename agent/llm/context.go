package llm

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SelectContext trims info to at most maxChars, keeping the paragraphs that
// share the most terms with question. Kept paragraphs stay in document order.
func SelectContext(info, question string, maxChars int) string {
	info = strings.TrimSpace(info)
	if maxChars <= 0 || len(info) <= maxChars {
		return info
	}

	paragraphs := splitParagraphs(info)
	terms := termSet(question)

	type scored struct {
		idx   int
		score int
	}
	ranked := make([]scored, len(paragraphs))
	for i, p := range paragraphs {
		n := 0
		for t := range termSet(p) {
			if _, ok := terms[t]; ok {
				n++
			}
		}
		ranked[i] = scored{idx: i, score: n}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	keep := make([]bool, len(paragraphs))
	used := 0
	for _, r := range ranked {
		p := paragraphs[r.idx]
		cost := len(p)
		if used > 0 {
			cost += len(paragraphSep)
		}
		if used+cost > maxChars {
			continue
		}
		keep[r.idx] = true
		used += cost
	}

	var out []string
	for i, p := range paragraphs {
		if keep[i] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		// Best paragraph alone is too long; hard cut it.
		return truncate(paragraphs[ranked[0].idx], maxChars)
	}
	return strings.Join(out, paragraphSep)
}

const paragraphSep = "\n\n"

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, paragraphSep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func termSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 3 || stopWords[f] {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

var stopWords = map[string]bool{
	"the": true, "and": true, "you": true, "your": true, "are": true, "for": true,
	"what": true, "when": true, "where": true, "how": true, "does": true, "with": true,
	"can": true, "have": true, "this": true, "that": true, "our": true,
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
