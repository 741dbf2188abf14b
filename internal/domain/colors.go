package domain

// DeckColors maps the five named palette colors to their hex values. Decks
// may also carry any free-form hex color chosen in a picker; the palette is
// only the default offering.
var DeckColors = map[string]string{
	"blue":   "#1E88E5",
	"green":  "#43A047",
	"purple": "#8E24AA",
	"orange": "#FB8C00",
	"red":    "#E53935",
}

// DefaultColor is used when a deck is created without a color.
const DefaultColor = "#1E88E5"

// PaletteColors lists the palette hex values in a stable order, for
// round-robin assignment and for rendering swatches.
func PaletteColors() []string {
	return []string{
		DeckColors["blue"],
		DeckColors["green"],
		DeckColors["purple"],
		DeckColors["orange"],
		DeckColors["red"],
	}
}
