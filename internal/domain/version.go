package domain

import (
	"github.com/Masterminds/semver/v3"
)

// Version wraps semver.Version for additional methods.
type Version struct {
	*semver.Version
}

// NewVersion creates a new Version from a string.
func NewVersion(s string) (*Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, err
	}
	return &Version{v}, nil
}

// IsPrerelease reports whether the version carries a prerelease suffix such as -rc.1.
func (v *Version) IsPrerelease() bool {
	return v.Prerelease() != ""
}
