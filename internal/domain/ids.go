package domain

import (
	"sort"
	"strings"
)

// CompareTaskIDs orders task identifiers in natural order: runs of digits
// compare numerically, everything else byte-wise. Upstream ids are integer
// strings, so "2" sorts before "10"; mixed ids keep the same rule per
// digit run, so "T2" sorts before "T10".
func CompareTaskIDs(a, b string) int {
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			var da, db string
			da, a = splitDigits(a)
			db, b = splitDigits(b)
			if c := compareDigits(da, db); c != 0 {
				return c
			}
			continue
		}
		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	switch {
	case a == b:
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// SortTaskIDs sorts ids in place in ascending task-id order.
func SortTaskIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return CompareTaskIDs(ids[i], ids[j]) < 0 })
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// splitDigits cuts the leading digit run off s.
func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// compareDigits compares two digit runs as unbounded integers. Leading
// zeros are insignificant; when the values tie, the shorter spelling
// sorts first so the order stays total.
func compareDigits(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if ta != tb {
		if ta < tb {
			return -1
		}
		return 1
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return 0
}
