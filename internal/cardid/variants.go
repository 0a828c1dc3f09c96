// Package cardid resolves card identifiers across provider numbering
// conventions: zero-padding differences, sub-set suffixes, and JP/EN
// catalog splits.
package cardid

import (
	"regexp"
	"strings"
)

// setSegmentPattern matches set codes that end in digits, optionally
// followed by a single letter or a "pt" sub-set suffix (e.g. "swsh12pt5").
var setSegmentPattern = regexp.MustCompile(`(?i)^(.*?)(\d+)((?:pt\d*)|[a-z])?$`)

var numericPattern = regexp.MustCompile(`^\d+$`)

// GenerateVariants expands a card id into all equivalent spellings used by
// the providers we scrape. The result always contains the original id, has
// no duplicates, and is deterministic for a given input.
//
// Ids that do not split into a set segment and a number segment are
// returned unchanged as a single-element slice.
func GenerateVariants(id string) []string {
	set, number, ok := splitID(id)
	if !ok {
		return []string{id}
	}

	setVariants := setSegmentVariants(set)
	numberVariants := numberSegmentVariants(number)

	seen := make(map[string]struct{}, len(setVariants)*len(numberVariants))
	variants := make([]string, 0, len(setVariants)*len(numberVariants))
	for _, s := range setVariants {
		for _, n := range numberVariants {
			v := s + "-" + n
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			variants = append(variants, v)
		}
	}
	return variants
}

// splitID splits an id on its first separator. Both halves must be
// non-empty for the id to have the expected two-segment shape.
func splitID(id string) (set, number string, ok bool) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// setSegmentVariants returns the set segment plus a 2-digit zero-padded
// spelling of its trailing digits. Dotted sub-set notation ("sv08.5")
// blocks expansion entirely.
func setSegmentVariants(set string) []string {
	if strings.Contains(set, ".") {
		return []string{set}
	}

	m := setSegmentPattern.FindStringSubmatch(set)
	if m == nil {
		return []string{set}
	}
	prefix, digits, suffix := m[1], m[2], m[3]

	padded := digits
	if len(digits) < 2 {
		padded = "0" + digits
	}
	if padded == digits {
		return []string{set}
	}
	return []string{set, prefix + padded + suffix}
}

// numberSegmentVariants returns the number segment plus 2- and 3-digit
// zero-padded spellings where the original is shorter. Numbers with three
// or more digits are never padded further.
func numberSegmentVariants(number string) []string {
	if !numericPattern.MatchString(number) {
		return []string{number}
	}

	variants := []string{number}
	for _, width := range []int{2, 3} {
		if len(number) < width {
			variants = append(variants, zeroPad(number, width))
		}
	}
	return variants
}

func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
