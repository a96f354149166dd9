package enums

import (
	"fmt"
	"strings"
)

// Location is a place where stock can reside.
type Location string

const (
	LocationDisplay Location = "Display"
	LocationStorage Location = "Storage"
	LocationReturns Location = "Returns"
)

var validLocations = []Location{
	LocationDisplay,
	LocationStorage,
	LocationReturns,
}

// Locations returns every known location.
func Locations() []Location {
	return append([]Location(nil), validLocations...)
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return string(l)
}

// IsValid reports whether the value is a known Location.
func (l Location) IsValid() bool {
	for _, candidate := range validLocations {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLocation converts raw input into a Location, ignoring case.
func ParseLocation(value string) (Location, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validLocations {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location %q", value)
}
