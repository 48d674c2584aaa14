package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/piwi3910/PalletCut/internal/model"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented detail line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printResult prints the headline numbers of a solved problem.
func printResult(r model.Result, cached bool) {
	source := styleComputed.Render(iconFresh)
	if cached {
		source = styleCached.Render(iconCached)
	}
	status := StyleSuccess.Render("optimal")
	if !r.Optimal {
		status = StyleWarning.Render(fmt.Sprintf("gap %d", r.Gap()))
	}

	name := r.Problem.String()
	if r.Problem.Label != "" {
		name = r.Problem.Label + " " + StyleDim.Render(name)
	}
	fmt.Println(StyleTitle.Render(name))
	printSuccess("%s boxes of %s, bound %d, %s (%s)",
		StyleNumber.Render(fmt.Sprint(r.Count)),
		StyleNumber.Render(fmt.Sprintf("%dx%d", r.Problem.BoxLength, r.Problem.BoxWidth)),
		r.UpperBound, status, source)

	method := r.Method
	if r.Strategy != "" {
		method += ", " + r.Strategy + " memo"
	}
	printDetail("method %s, %s, efficiency %.1f%%", method, r.Elapsed.Round(time.Millisecond), r.Efficiency())
}

// drawLayout renders a layout as text, one character per unit, for small
// pallets. Boxes cycle through letters; turned boxes use lower case.
func drawLayout(r model.Result) string {
	L, W := r.Problem.Length, r.Problem.Width
	grid := make([][]byte, W)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", L))
	}
	for i, b := range r.Boxes {
		ch := byte('A' + i%26)
		if b.Rotated {
			ch = byte('a' + i%26)
		}
		for y := b.Y1; y < b.Y2; y++ {
			for x := b.X1; x < b.X2; x++ {
				grid[y][x] = ch
			}
		}
	}

	var sb strings.Builder
	// Row 0 is the bottom of the pallet.
	for y := W - 1; y >= 0; y-- {
		sb.Write(grid[y])
		sb.WriteByte('\n')
	}
	return sb.String()
}

// maxDrawSide bounds the pallets drawLayout is used for.
const maxDrawSide = 80
