package search

import (
	"slices"
	"strings"
)

// ExpandKeywords returns every keyword together with its naive singular and
// plural forms, de-duplicated and sorted.
//
//	cats -> cat          butterflies -> butterfly    beaches -> beach
//	cat -> cats          butterfly -> butterflies    beach -> beaches
//	wolf -> wolves       knife -> knives
//
// The rules are English suffix heuristics, not a dictionary: "bus" also
// yields "bu", which matches nothing and costs nothing.
func ExpandKeywords(keywords []string) []string {
	expanded := make([]string, 0, len(keywords)*3)

	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		expanded = append(expanded, k)
		expanded = append(expanded, variants(k)...)
	}

	slices.Sort(expanded)
	return slices.Compact(expanded)
}

func variants(k string) []string {
	if strings.HasSuffix(k, "s") {
		out := []string{k[:len(k)-1]}
		switch {
		case strings.HasSuffix(k, "ies"):
			out = append(out, k[:len(k)-3]+"y")
		case strings.HasSuffix(k, "es"):
			out = append(out, k[:len(k)-2])
		}
		return nonEmpty(out)
	}

	out := []string{k + "s"}
	switch {
	case strings.HasSuffix(k, "y") && len(k) >= 2 && !isVowel(k[len(k)-2]):
		out = append(out, k[:len(k)-1]+"ies")
	case hasAnySuffix(k, "sh", "ch", "x", "z"):
		out = append(out, k+"es")
	case strings.HasSuffix(k, "f"):
		out = append(out, k[:len(k)-1]+"ves")
	case strings.HasSuffix(k, "fe"):
		out = append(out, k[:len(k)-2]+"ves")
	}
	return out
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiou", c) >= 0
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func nonEmpty(words []string) []string {
	return slices.DeleteFunc(words, func(w string) bool { return w == "" })
}
