package core

// identity.go computes participant identity keys and collapses duplicates.
//
// The identity key is lower(trim(name)) + "|" + lower(trim(district)) after
// Unicode NFC composition, so "José" typed with a combining accent matches
// the precomposed spelling. The separator is not escaped: a name containing
// "|" can collide with a different (name, district) pair.

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// KeySeparator joins the name and district parts of an identity key.
const KeySeparator = "|"

// IdentityKey returns the normalized identity key for a (name, district) pair.
func IdentityKey(name, district string) string {
	return foldKeyPart(name) + KeySeparator + foldKeyPart(district)
}

func foldKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// KeySet is a set of identity keys.
type KeySet map[string]struct{}

// KeysOf returns the identity keys of every participant in t.
func KeysOf(t Table) KeySet {
	keys := make(KeySet, len(t))
	for _, p := range t {
		keys.Add(p.Key())
	}
	return keys
}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key and reports whether it was new.
func (s KeySet) Add(key string) bool {
	if s.Has(key) {
		return false
	}
	s[key] = struct{}{}
	return true
}

// DedupeBatch keeps the first participant per identity key, in input order,
// and returns how many rows were dropped.
func DedupeBatch(rows Table) (Table, int) {
	seen := make(KeySet, len(rows))
	out := make(Table, 0, len(rows))
	for _, p := range rows {
		if seen.Add(p.Key()) {
			out = append(out, p)
		}
	}
	return out, len(rows) - len(out)
}

// ExcludeKeys drops participants whose identity key is in existing and
// returns how many were dropped.
func ExcludeKeys(rows Table, existing KeySet) (Table, int) {
	out := make(Table, 0, len(rows))
	for _, p := range rows {
		if !existing.Has(p.Key()) {
			out = append(out, p)
		}
	}
	return out, len(rows) - len(out)
}
