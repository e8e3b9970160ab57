// Package topic defines hierarchical notification topics and wildcard
// pattern matching for the event bus.
package topic

import "strings"

// Topic is a hierarchical notification name using dot notation, such as
// "feature.updated" or "selection.changed".
type Topic string

// Wildcard segments.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator separates topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Parent returns the topic without its last segment.
//
// Example: "feature.updated" -> "feature"
func (t Topic) Parent() Topic {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Topic(s[:idx])
}

// Base returns the last segment.
func (t Topic) Base() string {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// IsWildcard reports whether the topic contains a wildcard segment.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), WildcardSingle)
}

// IsValid reports whether the topic is non-empty and has no empty segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches reports whether the topic matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(t.Segments(), pattern.Segments())
}

func matchSegments(topic, pattern []string) bool {
	ti, pi := 0, 0
	for pi < len(pattern) {
		if pattern[pi] == WildcardMulti {
			for ti <= len(topic) {
				if matchSegments(topic[ti:], pattern[pi+1:]) {
					return true
				}
				ti++
			}
			return false
		}
		if ti >= len(topic) {
			return false
		}
		if pattern[pi] != WildcardSingle && pattern[pi] != topic[ti] {
			return false
		}
		ti++
		pi++
	}
	return ti == len(topic)
}
