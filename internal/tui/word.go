package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s     string
	width int
}

// buildStyledRunes colors the target word against what has been typed so
// far. Typed runes past the end of the target are shown as errors.
func buildStyledRunes(targetRunes, inputRunes []rune) []styledRune {
	out := make([]styledRune, 0, max(len(targetRunes), len(inputRunes)))
	for i, target := range targetRunes {
		style := currentWordStyle
		if i < len(inputRunes) {
			if inputRunes[i] == target {
				style = correctStyle
			} else {
				style = incorrectStyle
			}
		}
		if i == len(inputRunes) {
			style = cursorStyle
		}
		out = append(out, styledRune{
			s:     style.Render(string(target)),
			width: runewidth.RuneWidth(target),
		})
	}
	for i := len(targetRunes); i < len(inputRunes); i++ {
		extra := inputRunes[i]
		if extra == ' ' {
			extra = '•'
		}
		out = append(out, styledRune{
			s:     incorrectStyle.Render(string(extra)),
			width: runewidth.RuneWidth(extra),
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, r := range runes {
		b.WriteString(r.s)
	}
	return b.String()
}

func styledWidth(runes []styledRune) int {
	total := 0
	for _, r := range runes {
		total += r.width
	}
	return total
}

// fitStyledRunes keeps the leading runes whose combined display width
// stays within width.
func fitStyledRunes(runes []styledRune, width int) []styledRune {
	total := 0
	for i, r := range runes {
		if total+r.width > width {
			return runes[:i]
		}
		total += r.width
	}
	return runes
}
