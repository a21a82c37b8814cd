package jdk

import (
	"strconv"
	"strings"

	"jdk-autoconf/src/internal/common"
)

// normalizeVersion rewrites vendor-specific separators so that strings like
// "1.8.0_392" and "17.0.2+8" compare as plain dotted numeric sequences.
func normalizeVersion(v string) string {
	v = strings.TrimSpace(strings.Trim(v, `"`))
	v = strings.ReplaceAll(v, "_", ".")
	v = strings.ReplaceAll(v, "+", ".")
	v = strings.ReplaceAll(v, "-", ".")
	return v
}

// parseSegments splits a normalized version string into numeric segments.
func parseSegments(v string) ([]int, bool) {
	parts := strings.Split(normalizeVersion(v), ".")
	segs := make([]int, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			// Trailing qualifiers like "ea" or "b05" end the numeric prefix.
			if len(segs) > 0 {
				if tail, ok := numericPrefix(p); ok {
					segs = append(segs, tail)
				}
				return segs, true
			}
			return nil, false
		}
		segs = append(segs, n)
	}
	if len(segs) == 0 {
		return nil, false
	}
	return segs, true
}

func numericPrefix(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsNewer reports whether version a is strictly newer than version b.
// Malformed input fails safe: the result is false and a warning is logged,
// so an unparsable candidate can never displace a known-good one.
func IsNewer(a, b string) bool {
	sa, okA := parseSegments(a)
	if !okA {
		common.ScanLogger.Warn("unparsable version string %q, treating as not newer", a)
		return false
	}
	sb, okB := parseSegments(b)
	if !okB {
		common.ScanLogger.Warn("unparsable version string %q, treating as not newer", b)
		return false
	}

	for i := 0; i < len(sa) || i < len(sb); i++ {
		va, vb := 0, 0
		if i < len(sa) {
			va = sa[i]
		}
		if i < len(sb) {
			vb = sb[i]
		}
		if va != vb {
			return va > vb
		}
	}
	return false
}

// MajorOf extracts the Java major version from a full version string
// ("1.8.0_392" -> 8, "17.0.2" -> 17). Returns 0 on malformed input.
func MajorOf(version string) int {
	segs, ok := parseSegments(version)
	if !ok {
		return 0
	}
	if segs[0] == 1 && len(segs) > 1 {
		return segs[1]
	}
	return segs[0]
}
