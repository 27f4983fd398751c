package term

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const upperHalfBlock = "▀"

// encodeFrame turns an RGBA surface into terminal cells. Each cell is
// an upper half block whose foreground carries the even row's pixel
// and whose background carries the odd row's, doubling the vertical
// resolution of the terminal.
//
// Styles are cached per color pair; frames with large flat regions
// reuse a handful of styles instead of building one per cell.
func encodeFrame(img *image.RGBA) string {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return ""
	}

	styles := make(map[[2]string]lipgloss.Style)
	var sb strings.Builder
	sb.Grow(w * h * 10)

	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			upper := hexAt(img, b.Min.X+x, b.Min.Y+y)
			lower := upper
			if y+1 < h {
				lower = hexAt(img, b.Min.X+x, b.Min.Y+y+1)
			}
			pair := [2]string{upper, lower}
			style, ok := styles[pair]
			if !ok {
				style = lipgloss.NewStyle().
					Foreground(lipgloss.Color(upper)).
					Background(lipgloss.Color(lower))
				styles[pair] = style
			}
			sb.WriteString(style.Render(upperHalfBlock))
		}
	}
	return sb.String()
}

func hexAt(img *image.RGBA, x, y int) string {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+3 : i+3]
	return fmt.Sprintf("#%02x%02x%02x", p[0], p[1], p[2])
}
