package platform

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mj1618/element-inspector/internal/locator"
)

// Bounds represents a screen rectangle.
type Bounds struct {
	X, Y, Width, Height int
}

var boundsRe = regexp.MustCompile(`^\s*\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]\s*$`)

// ParseBounds parses a UIAutomator "[x1,y1][x2,y2]" string into a Bounds.
func ParseBounds(s string) (*Bounds, error) {
	m := boundsRe.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("invalid bounds %q: expected [x1,y1][x2,y2]", s)
	}
	vals := make([]int, 4)
	for i, p := range m[1:] {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid bounds %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] < vals[0] || vals[3] < vals[1] {
		return nil, fmt.Errorf("invalid bounds %q: corners out of order", s)
	}
	return &Bounds{X: vals[0], Y: vals[1], Width: vals[2] - vals[0], Height: vals[3] - vals[1]}, nil
}

// Locator is a lookup strategy and its value, as sent to the server.
type Locator struct {
	Using string `yaml:"using" json:"using"`
	Value string `yaml:"value" json:"value"`
}

// Descriptor renders loc in the "By.<strategy>: <value>" convention used
// when reporting failed lookups.
func (loc Locator) Descriptor() string {
	switch loc.Using {
	case locator.StrategyID:
		return locator.ByID(loc.Value)
	case locator.StrategyXPath:
		return locator.ByXPath(loc.Value)
	case locator.StrategyAccessibilityID:
		return locator.ByAccessibilityID(loc.Value)
	case locator.StrategyClassName:
		return locator.ByClassName(loc.Value)
	}
	return loc.Using + ": " + loc.Value
}

func (loc Locator) String() string { return loc.Descriptor() }
