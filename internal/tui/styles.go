package tui

import (
	"maps"

	"github.com/charmbracelet/lipgloss"

	"github.com/Fraugrammers/frotect-dashboard/internal/render"
)

const sidebarWidth = 22

// Palette colors. InitializeSkin may replace them before the program starts.
var (
	ColorGray   = lipgloss.Color("244")
	ColorBlue   = lipgloss.Color("33")
	ColorGreen  = lipgloss.Color("82")
	ColorRed    = lipgloss.Color("196")
	ColorWhite  = lipgloss.Color("252")
	ColorAccent = lipgloss.Color("214")
)

// categoryColors maps a chart category to its ANSI 256 color code.
var categoryColors = maps.Clone(render.DefaultLevelColors)

var (
	sectionStyle       lipgloss.Style
	activeSectionStyle lipgloss.Style
	chartTitleStyle    lipgloss.Style
	helpStyle          lipgloss.Style
	grayStyle          lipgloss.Style
	errorStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	valueStyle         lipgloss.Style
	selectedStyle      lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles derives every package style from the current palette.
func rebuildStyles() {
	sectionStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)
	activeSectionStyle = sectionStyle.BorderForeground(ColorBlue)
	chartTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	helpStyle = lipgloss.NewStyle().Foreground(ColorGray)
	grayStyle = lipgloss.NewStyle().Foreground(ColorGray)
	errorStyle = lipgloss.NewStyle().Foreground(ColorRed)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	selectedStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
}

// categoryStyle is the solid block style for one chart segment.
func categoryStyle(category string) lipgloss.Style {
	c := lipgloss.Color(colorFor(category))
	return lipgloss.NewStyle().Foreground(c).Background(c)
}

// categoryTextStyle colors legend text for a category.
func categoryTextStyle(category string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorFor(category)))
}

func colorFor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return string(ColorGray)
}

// SetCategoryColors overlays configured colors on the default level palette.
func SetCategoryColors(colors map[string]string) {
	for k, v := range colors {
		if v != "" {
			categoryColors[k] = v
		}
	}
}
