// Package fuzzy ranks strings against a short query using case-insensitive
// subsequence matching, the way branch and worktree pickers filter their
// options.
package fuzzy

import (
	"sort"
	"strings"
)

const (
	boundaryBonus = 10
	exactBonus    = 100
	prefixBonus   = 50
	lengthPenalty = 0.1
)

// Match reports whether every rune of query appears in target in order,
// ignoring case. The empty query matches everything.
func Match(query, target string) bool {
	q := []rune(strings.ToLower(query))
	if len(q) == 0 {
		return true
	}

	qi := 0
	for _, r := range strings.ToLower(target) {
		if r == q[qi] {
			qi++
			if qi == len(q) {
				return true
			}
		}
	}
	return false
}

// Score rates how well query matches target; higher is better. It returns
// -1 when query does not match at all and 0 for the empty query.
//
// Each matched rune adds 1 plus the length of the current run of
// consecutive matches. A match at the start of target or right after '/'
// or '-' earns a word-boundary bonus. Exact matches and prefix matches earn
// further bonuses, and every rune target has beyond query costs a little.
func Score(query, target string) float64 {
	if !Match(query, target) {
		return -1
	}
	q := []rune(strings.ToLower(query))
	if len(q) == 0 {
		return 0
	}
	t := []rune(strings.ToLower(target))

	score := 0.0
	run := 0
	qi := 0
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			run = 0
			continue
		}
		run++
		score += float64(1 + run)
		if ti == 0 || t[ti-1] == '/' || t[ti-1] == '-' {
			score += boundaryBonus
		}
		qi++
	}

	if string(t) == string(q) {
		score += exactBonus
	}
	if strings.HasPrefix(string(t), string(q)) {
		score += prefixBonus
	}
	score -= float64(len(t)-len(q)) * lengthPenalty

	return score
}

// Search returns the items matching query, best first. Items with equal
// scores keep their input order. An empty query returns items unchanged.
func Search(query string, items []string) []string {
	if query == "" {
		return items
	}

	type scored struct {
		item  string
		score float64
	}
	matches := make([]scored, 0, len(items))
	for _, item := range items {
		if Match(query, item) {
			matches = append(matches, scored{item: item, score: Score(query, item)})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.item)
	}
	return result
}
