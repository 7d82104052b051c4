package render

import "unicode/utf8"

const (
	fontHeightRatio = 0.35
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 9.0
	fontSizeMax     = 16.0
)

// fontSize picks the largest size within bounds at which a label of textLen
// characters fits the box.
func fontSize(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byHeight, byWidth))
}

// truncateLabel shortens label to what fits in width at size, ending in "..".
func truncateLabel(label string, width, size float64) string {
	maxChars := max(3, int(width*fontWidthRatio/(size*fontCharWidth)))
	if utf8.RuneCountInString(label) <= maxChars {
		return label
	}
	r := []rune(label)
	return string(r[:maxChars-2]) + ".."
}
