// Package badge renders shields.io style coverage badges.
package badge

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/jenkinsci/coverage-model-sub002/internal/model"
)

const (
	colorGreen  = "#4c1"
	colorYellow = "#dfb317"
	colorRed    = "#e05d44"
	colorGray   = "#9f9f9f"
)

// Thresholds defines the color thresholds for badge generation.
type Thresholds struct {
	Red    float64 // Upper threshold for red (0-Red is red)
	Yellow float64 // Upper threshold for yellow (Red-Yellow is yellow, Yellow+ is green)
}

// DefaultThresholds returns the default color thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Red:    40,
		Yellow: 70,
	}
}

// Options configure Render.
type Options struct {
	Label      string
	Locale     language.Tag
	Thresholds Thresholds
}

// Render creates the SVG badge for a percentage. An unset percentage gives
// a gray "n/a" badge.
func Render(p model.Percentage, opts Options) string {
	label := opts.Label
	if label == "" {
		label = "coverage"
	}

	value, color := "n/a", colorGray
	if p.IsSet() {
		value = p.Format(opts.Locale)
		color = getColor(p.Float64(), opts.Thresholds)
	}
	return generateSVG(label, value, color)
}

// textWidth approximates the rendered width of s in 11px Verdana.
func textWidth(s string) int {
	return utf8.RuneCountInString(s)*7 + 10
}

func generateSVG(label, value, color string) string {
	leftWidth := textWidth(label)
	rightWidth := textWidth(value)
	height := 20
	totalWidth := leftWidth + rightWidth
	title := label + ": " + value

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" role="img" aria-label="%s">
  <title>%s</title>
  <g shape-rendering="crispEdges">
    <rect width="%d" height="%d" fill="#555"/>
    <rect x="%d" width="%d" height="%d" fill="%s"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" text-rendering="geometricPrecision" font-size="11">
    <text aria-hidden="true" x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%d" y="14">%s</text>
    <text aria-hidden="true" x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%d" y="14">%s</text>
  </g>
</svg>
`,
		totalWidth, height, title,
		title,
		leftWidth, height,
		leftWidth, rightWidth, height, color,
		leftWidth/2, label,
		leftWidth/2, label,
		leftWidth+rightWidth/2, value,
		leftWidth+rightWidth/2, value,
	)
}

// getColor returns the SVG color code based on coverage percentage and thresholds.
func getColor(coverage float64, thresholds Thresholds) string {
	switch {
	case coverage >= thresholds.Yellow:
		return colorGreen
	case coverage > thresholds.Red:
		return colorYellow
	default:
		return colorRed
	}
}
