// Package commute matches precomputed commute-time figures to properties by
// a fuzzy "region dong" key. Commute data may name regions with or without
// the "-si" city suffix, so lookups fall back to a normalized comparison.
package commute

import (
	"regexp"
	"strings"
)

// Time is one commute figure pair in minutes.
type Time struct {
	Subway  int `json:"subway"`
	Transit int `json:"transit"`
}

// Table maps "region dong" keys to commute times. Iteration during fuzzy
// matching follows insertion order, which keeps the first-match-wins
// fallback deterministic.
type Table struct {
	entries map[string]Time
	keys    []string
}

func NewTable() *Table {
	return &Table{entries: make(map[string]Time)}
}

// Add inserts or replaces an entry, preserving first-insertion order.
func (t *Table) Add(key string, c Time) {
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = c
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

var (
	citySuffix = regexp.MustCompile(`시(\s|$)`)
	spaces     = regexp.MustCompile(`\s+`)
)

// normalizeKey strips the trailing city suffix token, the leading Gyeonggi
// province marker, and collapses whitespace, so "수원시 장안구 조원동" and
// "경기 수원 장안구 조원동" compare equal.
func normalizeKey(s string) string {
	s = citySuffix.ReplaceAllString(s, "$1")
	s = strings.TrimPrefix(s, "경기 ")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// Match resolves the commute times for a property. An exact "region dong"
// key wins; otherwise the first table entry whose normalized key equals the
// normalized lookup key is returned. Nil means unknown, not zero.
func (t *Table) Match(region, dong string) *Time {
	if t == nil || len(t.entries) == 0 {
		return nil
	}
	key := region + " " + dong
	if c, ok := t.entries[key]; ok {
		return &c
	}
	normalized := normalizeKey(key)
	for _, k := range t.keys {
		if normalizeKey(k) == normalized {
			c := t.entries[k]
			return &c
		}
	}
	return nil
}
