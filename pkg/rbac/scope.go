package rbac

import (
	"slices"
	"strings"
)

const (
	scopeSeparator = "."
	scopeWildcard  = "*"
)

// matchScope reports whether granted covers required. "*" covers everything
// and "a.*" covers "a.b" and "a.b.c" but not "a" itself.
func matchScope(granted, required string) bool {
	if granted == scopeWildcard || granted == required {
		return true
	}
	prefix, ok := strings.CutSuffix(granted, scopeSeparator+scopeWildcard)
	if !ok {
		return false
	}
	return strings.HasPrefix(required, prefix+scopeSeparator)
}

func hasScope(granted []string, required string) bool {
	return slices.ContainsFunc(granted, func(g string) bool { return matchScope(g, required) })
}

// normalizeScopes removes duplicates and scopes already covered by a wildcard.
func normalizeScopes(scopes []string) []string {
	uniq := slices.Clone(scopes)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)

	out := uniq[:0:0]
	for _, s := range uniq {
		covered := slices.ContainsFunc(uniq, func(g string) bool {
			return g != s && matchScope(g, s)
		})
		if !covered {
			out = append(out, s)
		}
	}
	return out
}
