package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// clampPercent pins v to [0, 100] for drawing only.
func clampPercent(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderBrailleGraph plots percentage samples with braille characters, two
// samples per character and four levels per row. Samples are drawn one to
// one, never resampled. The newest samples sit at the right edge; when there
// are more samples than fit, the oldest are cut off. Values are clamped to
// 0-100 when drawn. Each column is colored by its peak value.
func RenderBrailleGraph(data []float64, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	totalDots := height * 4
	capacity := width * 2
	if len(data) > capacity {
		data = data[len(data)-capacity:]
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}
	colMax := make([]float64, width)

	offset := capacity - len(data)
	for i, raw := range data {
		val := clampPercent(raw)
		dotHeight := clampInt(int(val/100*float64(totalDots)+0.5), totalDots)

		pos := i + offset
		charCol, subCol := pos/2, pos%2
		if val > colMax[charCol] {
			colMax[charCol] = val
		}

		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - dot/4
			subRow := 3 - dot%4
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	lines := make([]string, 0, height)
	for _, row := range grid {
		var sb strings.Builder
		for col, char := range row {
			style := lipgloss.NewStyle().Foreground(MetricColor(colMax[col]))
			sb.WriteString(style.Render(string(char)))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// RenderGradientBar renders a horizontal usage bar. Filled cells are colored
// by their position so the bar shifts from green to red as it grows.
func RenderGradientBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	percent = clampPercent(percent)
	filled := clampInt(int(percent/100*float64(width)), width)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			pos := float64(i+1) / float64(width) * 100
			sb.WriteString(lipgloss.NewStyle().Foreground(MetricColor(pos)).Render("█"))
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(ColorTextMuted).Render("░"))
		}
	}
	return sb.String()
}
