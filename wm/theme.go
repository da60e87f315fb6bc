package wm

import "image/color"

// Theme holds the resolved colours and metrics used for decorations.
type Theme struct {
	TitleActiveFg         color.Color
	TitleActiveBg         color.Color
	TitleActiveBgBright   color.Color
	TitleInactiveFg       color.Color
	TitleInactiveBg       color.Color
	TitleInactiveBgBright color.Color

	MenuFg          color.Color
	MenuBg          color.Color
	MenuSelectionFg color.Color
	MenuSelectionBg color.Color

	BorderWidth int
}

// titleColors returns the foreground and background for a decoration
// of a frame whose family is, or is not, active.
func (t Theme) titleColors(active bool) (fg, bg color.Color) {
	if active {
		return t.TitleActiveFg, t.TitleActiveBg
	}
	return t.TitleInactiveFg, t.TitleInactiveBg
}

func (t Theme) brightBackground(active bool) color.Color {
	if active {
		return t.TitleActiveBgBright
	}
	return t.TitleInactiveBgBright
}
