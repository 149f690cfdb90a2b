package core

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const defaultRelatedLimit = 5

var nonTermChars = regexp.MustCompile(`[^\pL\pN\s]+`)

var titleStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "your": {}, "you": {}, "are": {}, "was": {}, "how": {},
	"what": {}, "why": {}, "when": {}, "into": {}, "about": {}, "our": {},
	"not": {}, "but": {}, "can": {}, "all": {}, "new": {}, "its": {},
}

// RelatedWeights are the points awarded per shared tag, matching category and shared title term
type RelatedWeights struct {
	Tag       int
	Category  int
	TitleTerm int
}

// DefaultRelatedWeights favours tags over categories over title words
func DefaultRelatedWeights() RelatedWeights {
	return RelatedWeights{Tag: 3, Category: 2, TitleTerm: 1}
}

// RankRelatedPosts scores candidates against target and returns the best
// limit of them. The target itself, unpublished posts and posts sharing
// nothing with the target are left out. Ties go to the newer post, then to
// the lower ID.
func RankRelatedPosts(target Post, candidates []Post, w RelatedWeights, limit int) []RelatedPost {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}

	targetTags := normalizedSet(target.Tags)
	targetTerms := titleTerms(target.Title)
	targetCategory := strings.ToLower(strings.TrimSpace(target.Category))

	seen := make(map[string]struct{}, len(candidates))
	ranked := make([]RelatedPost, 0, len(candidates))
	for _, p := range candidates {
		if p.ID == target.ID || !p.Published {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		score := w.Tag * overlap(targetTags, normalizedSet(p.Tags))
		if targetCategory != "" && strings.EqualFold(strings.TrimSpace(p.Category), targetCategory) {
			score += w.Category
		}
		score += w.TitleTerm * overlap(targetTerms, titleTerms(p.Title))

		if score > 0 {
			ranked = append(ranked, RelatedPost{Post: p, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Post.PublishedAt.Equal(b.Post.PublishedAt) {
			return a.Post.PublishedAt.After(b.Post.PublishedAt)
		}
		return a.Post.ID < b.Post.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// titleTerms splits a title into lower-case, accent-folded terms without stopwords
func titleTerms(title string) map[string]struct{} {
	// the transformer is stateful, so a fresh chain per call
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	cleaned := strings.ToLower(nonTermChars.ReplaceAllString(title, " "))
	folded, _, err := transform.String(fold, cleaned)
	if err != nil {
		folded = cleaned
	}

	terms := make(map[string]struct{})
	for _, tok := range strings.Fields(folded) {
		if len([]rune(tok)) < 3 {
			continue
		}
		if _, stop := titleStopwords[tok]; stop {
			continue
		}
		terms[tok] = struct{}{}
	}
	return terms
}

func normalizedSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
