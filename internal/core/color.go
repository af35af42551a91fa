package core

// Color is the foreground colour of a screen cell. Games pick from this
// small palette; front ends decide how to show it.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightGreen
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightYellow
	ColorGray

	colorCount
)

// ansi256 holds the xterm-256 index for each colour; "" is the terminal default.
var ansi256 = [colorCount]string{
	ColorDefault:       "",
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorBrightGreen:   "10",
	ColorBrightMagenta: "13",
	ColorBrightCyan:    "14",
	ColorBrightYellow:  "11",
	ColorGray:          "245",
}

// ANSI256 returns the xterm-256 colour index as a string, or "" for the
// terminal default and for values outside the palette.
func (c Color) ANSI256() string {
	if c >= colorCount {
		return ""
	}
	return ansi256[c]
}
