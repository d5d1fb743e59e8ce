package grades

import "strings"

var letterThresholds = []struct {
	min    float64
	letter string
}{
	{90, "A+"},
	{85, "A"},
	{80, "A-"},
	{75, "B+"},
	{70, "B"},
	{65, "B-"},
	{60, "C+"},
	{55, "C"},
	{50, "C-"},
	{40, "D"},
}

// Letter maps a percentage onto a grade letter.
func Letter(pct float64) string {
	for _, t := range letterThresholds {
		if pct >= t.min {
			return t.letter
		}
	}
	return "F"
}

// Letters lists every grade letter from best to worst.
func Letters() []string {
	out := make([]string, 0, len(letterThresholds)+1)
	for _, t := range letterThresholds {
		out = append(out, t.letter)
	}
	return append(out, "F")
}

// ColorClass returns the display class for a grade letter, keyed by its first
// letter. Empty letters have no class.
func ColorClass(letter string) string {
	switch {
	case letter == "":
		return ""
	case strings.HasPrefix(letter, "A"):
		return "grade-A"
	case strings.HasPrefix(letter, "B"):
		return "grade-B"
	case strings.HasPrefix(letter, "C"):
		return "grade-C"
	case strings.HasPrefix(letter, "D"):
		return "grade-D"
	default:
		return "grade-F"
	}
}

// DefaultLetterColor is used for letters outside the palette.
const DefaultLetterColor = "var(--color-primary)"

var letterColors = map[string]string{
	"A+": "#00b894", "A": "#00cec9", "A-": "#55efc4",
	"B+": "#6c5ce7", "B": "#a29bfe", "B-": "#74b9ff",
	"C+": "#fdcb6e", "C": "#ffeaa7", "C-": "#fab1a0",
	"D": "#e17055", "F": "#d63031",
}

// LetterColor returns the chart color of a grade letter.
func LetterColor(letter string) string {
	if c, ok := letterColors[letter]; ok {
		return c
	}
	return DefaultLetterColor
}
