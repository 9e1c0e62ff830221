package update

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/DohaRamadan/jabref/internal/errors"
)

// Version is a parsed release identifier. Versions are values: compare them
// with Compare or Equal, and build them only through ParseVersion.
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string
}

// versionRegex matches one to three numeric segments with an optional 'v'
// prefix, followed by an optional suffix. The canonical separator is "--";
// a single '-' followed by a letter is accepted for tag-style identifiers.
var versionRegex = regexp.MustCompile(
	`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:--([0-9A-Za-z][0-9A-Za-z.+_-]*)|-([A-Za-z][0-9A-Za-z.+_-]*))?$`,
)

// ParseVersion parses a release identifier such as "5.1", "v5.13.2" or
// "5.2--alpha". Invalid input returns an error coded CodeParseFailed.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, apperrors.New(apperrors.CodeParseFailed, "parse version", fmt.Errorf("empty version string"))
	}

	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, apperrors.New(apperrors.CodeParseFailed, "parse version", fmt.Errorf("invalid version format: %q", s))
	}

	var segs [3]int
	for i := 0; i < 3; i++ {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, apperrors.New(apperrors.CodeParseFailed, "parse version", fmt.Errorf("segment %q: %w", m[i+1], err))
		}
		segs[i] = n
	}

	suffix := m[4]
	if suffix == "" {
		suffix = m[5]
	}

	return Version{Major: segs[0], Minor: segs[1], Patch: segs[2], Suffix: suffix}, nil
}

// MustParseVersion is like ParseVersion but panics on invalid input.
// Intended for constants and tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsStable reports whether the version carries no pre-release suffix.
func (v Version) IsStable() bool {
	return v.Suffix == ""
}

// String returns the canonical form major.minor[.patch][--suffix].
func (v Version) String() string {
	base := fmt.Sprintf("%d.%d", v.Major, v.Minor)
	if v.Patch != 0 {
		base = fmt.Sprintf("%s.%d", base, v.Patch)
	}
	if v.Suffix != "" {
		return base + "--" + v.Suffix
	}
	return base
}

// Compare compares two versions.
// Returns:
//
//	-1 if v < other
//	 0 if v == other
//	 1 if v > other
//
// Numeric segments decide first, then a stable version beats an unstable
// one, then suffixes compare lexicographically.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return compareInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return compareInt(v.Minor, other.Minor)
	}
	if v.Patch != other.Patch {
		return compareInt(v.Patch, other.Patch)
	}
	return compareSuffix(v.Suffix, other.Suffix)
}

// LessThan returns true if v < other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// GreaterThan returns true if v > other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// Equal returns true if v == other.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func compareSuffix(a, b string) int {
	// No suffix is greater than any suffix
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}
	return strings.Compare(a, b)
}
