package codec

import "strings"

// Share is a build as carried in a URL path.
type Share struct {
	Class string
	// Build is a legacy dense build; empty for canonical paths.
	Build string
	// Order is an order slug. When present it is authoritative.
	Order string
}

// Empty reports whether the share names no points.
func (s Share) Empty() bool {
	return s.Build == "" && s.Order == ""
}

// FormatPath renders /<class>[/<build>][/<order>]. Empty segments are left
// out; a share without a class renders "/".
func FormatPath(s Share) string {
	if s.Class == "" {
		return "/"
	}
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(s.Class)
	for _, seg := range []string{s.Build, s.Order} {
		if seg != "" {
			b.WriteString("/")
			b.WriteString(seg)
		}
	}
	return b.String()
}

// ParsePath reads a share path. Query strings, fragments and empty segments
// are ignored and the class is lowercased. With two segments the second is a
// dense build when it holds only digits and '-', an order slug otherwise.
// With three or more, the second is the build and the third the order.
func ParsePath(path string) Share {
	path, _, _ = strings.Cut(path, "?")
	path, _, _ = strings.Cut(path, "#")

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}

	var s Share
	switch {
	case len(segments) == 0:
		return s
	case len(segments) == 1:
	case len(segments) == 2:
		if IsDense(segments[1]) {
			s.Build = segments[1]
		} else {
			s.Order = segments[1]
		}
	default:
		s.Build, s.Order = segments[1], segments[2]
	}
	s.Class = strings.ToLower(segments[0])
	return s
}
