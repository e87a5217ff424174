package wm

import "strings"

const (
	prefixClass         = "class="
	prefixTitle         = "title="
	prefixTitleContains = "title_contains="
)

// MatchesApp reports whether a window with the given title and class (nil when
// the window has none) matches pattern.
//
// Patterns may be prefixed with class=, title= or title_contains=. A bare
// pattern compares against the class when the window has one and falls back
// to a title substring only when it does not.
func MatchesApp(pattern string, title, class *string) bool {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return false
	}

	switch {
	case strings.HasPrefix(p, prefixClass):
		return class != nil && strings.EqualFold(*class, strings.TrimPrefix(p, prefixClass))
	case strings.HasPrefix(p, prefixTitle):
		return title != nil && strings.EqualFold(*title, strings.TrimPrefix(p, prefixTitle))
	case strings.HasPrefix(p, prefixTitleContains):
		return title != nil && containsFold(*title, strings.TrimPrefix(p, prefixTitleContains))
	}

	if class != nil {
		return strings.EqualFold(*class, p)
	}
	return title != nil && containsFold(*title, p)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// optional turns an empty property into an absent one.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
