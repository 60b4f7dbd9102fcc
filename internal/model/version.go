package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Version limits imposed by the launcher's MM.mmpp float format
const (
	MaxMinorVersion = 99
	MaxPatchVersion = 99
	TagPrefix       = "v"
)

// Version is a MAJOR.MINOR.PATCH release version
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a semantic version made of three non-negative integers
func ParseVersion(raw string) (Version, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q: expected MAJOR.MINOR.PATCH", raw)
	}

	var numbers [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: %q is not a non-negative integer", raw, part)
		}
		numbers[i] = n
	}

	v := Version{Major: numbers[0], Minor: numbers[1], Patch: numbers[2]}
	if v.Minor > MaxMinorVersion {
		return Version{}, fmt.Errorf("minor version exceeds %d, a major version bump is required", MaxMinorVersion)
	}
	if v.Patch > MaxPatchVersion {
		return Version{}, fmt.Errorf("patch version exceeds %d, a minor version bump is required", MaxPatchVersion)
	}
	return v, nil
}

// Float returns the version in the launcher's MM.mmpp float format,
// e.g. 1.2.3 becomes 1.0203 and 1.0.0 becomes 1.0
func (v Version) Float() string {
	f, err := strconv.ParseFloat(fmt.Sprintf("%d.%02d%02d", v.Major, v.Minor, v.Patch), 64)
	if err != nil {
		return "0.0"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// String returns the semantic form, e.g. 1.2.3
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag returns the release tag name, e.g. v1.2.3
func (v Version) Tag() string {
	return TagPrefix + v.String()
}
