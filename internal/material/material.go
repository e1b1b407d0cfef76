// Package material is the single source of truth for shelf substrate
// materials. The texture generator, the composite renderer and the CLI all
// key off the same table so the base colors cannot drift apart.
package material

import (
	"fmt"
	"image/color"
	"strings"
)

// ID identifies a shelf material.
type ID string

const (
	Wood     ID = "wood"
	Marble   ID = "marble"
	Concrete ID = "concrete"
	Slate    ID = "slate"
)

// Definition describes how a material renders: a solid base color and an
// optional tileable pattern fetched over HTTP.
type Definition struct {
	Label      string
	Base       color.NRGBA
	PatternURL string
}

var table = map[ID]Definition{
	Wood: {
		Label:      "Walnut wood",
		Base:       color.NRGBA{R: 0x6b, G: 0x4a, B: 0x2f, A: 0xff},
		PatternURL: "https://www.transparenttextures.com/patterns/wood-pattern.png",
	},
	Marble: {
		Label: "White marble",
		Base:  color.NRGBA{R: 0xd8, G: 0xd4, B: 0xcc, A: 0xff},
	},
	Concrete: {
		Label: "Cast concrete",
		Base:  color.NRGBA{R: 0x8a, G: 0x8a, B: 0x86, A: 0xff},
	},
	Slate: {
		Label: "Dark slate",
		Base:  color.NRGBA{R: 0x3a, G: 0x3d, B: 0x42, A: 0xff},
	},
}

// Default is the material used when none is configured.
func Default() ID {
	return Wood
}

// Lookup returns the definition for a material id.
func Lookup(id ID) (Definition, bool) {
	def, ok := table[id]
	return def, ok
}

// IDs returns all known material ids in a stable order, for CLI help and
// request validation.
func IDs() []ID {
	return []ID{Wood, Marble, Concrete, Slate}
}

// Options renders the table as "id (Label)" entries for CLI flag help.
func Options() string {
	parts := make([]string, 0, len(table))
	for _, id := range IDs() {
		parts = append(parts, fmt.Sprintf("%s (%s)", id, table[id].Label))
	}
	return strings.Join(parts, ", ")
}
