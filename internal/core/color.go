package core

// Color names a foreground color for a screen cell. Games pick from this
// palette; the platform decides how each name maps onto the terminal.
type Color uint8

// The palette. Bright variants highlight active elements (the crosshair,
// a burning head); Orange and Gray cover fire and drifting seeds.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray

	ColorCount // number of defined colors, keep last
)

// ansiCodes holds the ANSI 256-color index for each palette entry.
// ColorDefault stays empty: it means "whatever the terminal uses".
var ansiCodes = [ColorCount]string{
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightYellow:  "11",
	ColorBrightBlue:    "12",
	ColorBrightMagenta: "13",
	ColorBrightCyan:    "14",
	ColorBrightWhite:   "15",
	ColorOrange:        "208",
	ColorGray:          "245",
}

// ANSI returns the ANSI 256-color code for this color as a string, or ""
// for ColorDefault and out-of-range values.
func (c Color) ANSI() string {
	if c >= ColorCount {
		return ""
	}
	return ansiCodes[c]
}
