package backend

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Profile is a named game configuration owned by the backend. The launcher
// holds a read-only copy fetched once at startup.
type Profile struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Loader  string  `json:"loader,omitempty"`
	Visuals Visuals `json:"visuals"`
}

// Visuals holds the artwork references for a profile.
type Visuals struct {
	Background string `json:"background"`
}

// LoaderName returns the display name of the mod loader.
func (p Profile) LoaderName() string {
	l := strings.ToLower(p.Loader)
	if l == "" || l == "vanilla" {
		return "Vanilla"
	}
	return strings.ToUpper(l[:1]) + l[1:]
}

// JavaRequirement derives the Java major version the profile's game
// version needs. Unparseable versions yield "Java ?".
func (p Profile) JavaRequirement() string {
	v := "v" + p.Version
	if !semver.IsValid(v) {
		return "Java ?"
	}
	switch {
	case semver.Compare(v, "v1.20.5") >= 0:
		return "Java 21"
	case semver.Compare(v, "v1.18.0") >= 0:
		return "Java 17"
	case semver.Compare(v, "v1.17.0") >= 0:
		return "Java 16"
	default:
		return "Java 8"
	}
}
