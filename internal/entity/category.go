package entity

import (
	"fmt"
	"strings"
)

type Category int

const (
	CategoryFilters Category = iota
	CategoryStickers
	CategoryWeatherStickers
	CategoryAdjustments
)

var categoryNames = map[Category]string{
	CategoryFilters:         "filters",
	CategoryStickers:        "stickers",
	CategoryWeatherStickers: "weather_stickers",
	CategoryAdjustments:     "adjustments",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown category %q", ErrInvalidCustomization, s)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
