package wm

const ellipsis = "..."

// elide shortens s so that it fits in width pixels, ending it with an
// ellipsis. A string that already fits is returned unchanged, and an
// empty string is returned when not even the ellipsis fits.
func elide(font Font, s string, width int) string {
	if font.TextWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for n := len(runes); n >= len(ellipsis); n-- {
		cand := string(runes[:n-len(ellipsis)]) + ellipsis
		if font.TextWidth(cand) <= width {
			return cand
		}
	}
	return ""
}
