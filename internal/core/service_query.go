package core

import (
	"sort"
	"strings"
)

// Filter returns the participants matching every non-blank field of opts by
// case-insensitive substring. When any row has a sequence number the result
// is stably sorted by it, unassigned rows last. t is not modified.
func Filter(t Table, opts FilterOptions) Table {
	name := strings.ToLower(strings.TrimSpace(opts.Name))
	district := strings.ToLower(strings.TrimSpace(opts.District))
	assoc := strings.ToLower(strings.TrimSpace(opts.Association))

	out := make(Table, 0, len(t))
	anyNo := false
	for _, p := range t {
		if !containsFold(p.Name, name) || !containsFold(p.District, district) || !containsFold(p.Association, assoc) {
			continue
		}
		if p.No > 0 {
			anyNo = true
		}
		out = append(out, p)
	}

	if anyNo {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].No, out[j].No
			switch {
			case a <= 0:
				return false
			case b <= 0:
				return true
			default:
				return a < b
			}
		})
	}
	return out
}

// containsFold reports whether the folded field contains needle.
// An empty needle matches everything.
func containsFold(field, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(strings.TrimSpace(field)), needle)
}

// Summarize counts attendance across the whole table.
func Summarize(t Table) Summary {
	s := Summary{Total: len(t)}
	for _, p := range t {
		if p.Day1Attended {
			s.Day1++
		}
		if p.Day2Attended {
			s.Day2++
		}
		switch {
		case p.Day1Attended && p.Day2Attended:
			s.Both++
			s.Either++
		case p.Day1Attended || p.Day2Attended:
			s.Either++
		default:
			s.Neither++
		}
	}
	return s
}
