// Package resolve maps player-typed names to entity IDs.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Candidate is an entity the player could be naming.
type Candidate struct {
	ID   string
	Name string
}

// AmbiguityError indicates multiple entities matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no entity matched a name. Suggestion holds the
// closest candidate name, if any was close enough.
type NotFoundError struct {
	Name       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("you don't see %q here (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("you don't see %q here", e.Name)
}

// Pick resolves name against the candidates. Exactly one match is
// returned; none yields a *NotFoundError and several an *AmbiguityError.
// Exact id or full-name matches win over partial word matches.
func Pick(name string, cands []Candidate) (string, error) {
	q := strings.ToLower(strings.TrimSpace(name))

	var exact, partial []Candidate
	for _, c := range cands {
		switch {
		case matchesExactly(c, q):
			exact = append(exact, c)
		case matchesWord(c, q):
			partial = append(partial, c)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = partial
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: name, Suggestion: Suggest(name, names(cands))}
	case 1:
		return matches[0].ID, nil
	default:
		return "", &AmbiguityError{Name: name, Candidates: names(matches)}
	}
}

// Match reports whether name refers to the candidate, exactly or by one of
// the words of its name.
func Match(name string, c Candidate) bool {
	q := strings.ToLower(strings.TrimSpace(name))
	return matchesExactly(c, q) || matchesWord(c, q)
}

// Suggest returns the option closest to name by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func Suggest(name string, options []string) string {
	q := strings.ToLower(strings.TrimSpace(name))
	if len(q) < 2 {
		return ""
	}

	type scored struct {
		val  string
		dist int
	}
	var results []scored
	for _, opt := range options {
		cand := strings.ToLower(opt)
		dist := levenshtein.ComputeDistance(q, cand)
		if dist > limit(len(cand)) {
			continue
		}
		results = append(results, scored{val: opt, dist: dist})
	}
	if len(results) == 0 {
		return ""
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].val < results[j].val
		}
		return results[i].dist < results[j].dist
	})
	return results[0].val
}

// matchesExactly checks the id, the full name and the underscore form
// ("straw hat" names "straw_hat").
func matchesExactly(c Candidate, q string) bool {
	id := strings.ToLower(c.ID)
	return strings.ToLower(c.Name) == q || id == q || strings.ReplaceAll(q, " ", "_") == id
}

// matchesWord checks whether the query is one word of the name:
// "hat" matches "Straw Hat".
func matchesWord(c Candidate, q string) bool {
	for _, word := range strings.Fields(strings.ToLower(c.Name)) {
		if word == q {
			return true
		}
	}
	return false
}

func names(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Name)
	}
	return out
}

func limit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
