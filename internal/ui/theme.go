package ui

import "charm.land/lipgloss/v2"

type Theme struct {
	Header       lipgloss.Style
	Status       lipgloss.Style
	PanelTitle   lipgloss.Style
	PanelBorder  lipgloss.Style
	PanelBody    lipgloss.Style
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	Accent       lipgloss.Style
	Good         lipgloss.Style
	Warn         lipgloss.Style
	Muted        lipgloss.Style
}

// ThemeVariants lists the selectable themes in cycle order.
func ThemeVariants() []string {
	return []string{"deepsea", "forest", "twilight", "moss", "midnight", "olive"}
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "forest":
		return darkTheme("#0F2027", "#2C5364", "#71B280", "#ACD89D")
	case "twilight":
		return darkTheme("#1E3C72", "#2A5298", "#8AC6F2", "#EAF2FF")
	case "moss":
		return darkTheme("#134E5E", "#71B280", "#ACD89D", "#EAF2FF")
	case "midnight":
		return darkTheme("#141E30", "#243B55", "#5A8DEE", "#EAF2FF")
	case "olive":
		return darkTheme("#3A4A42", "#8E9EAB", "#DAD4CC", "#F4F1EC")
	default:
		return darkTheme("#2C3E50", "#4CA1AF", "#67F0A8", "#EAF2FF")
	}
}

func darkTheme(ink, slate, accent, powder string) Theme {
	inkC := lipgloss.Color(ink)
	slateC := lipgloss.Color(slate)
	accentC := lipgloss.Color(accent)
	powderC := lipgloss.Color(powder)
	mint := lipgloss.Color("#67F0A8")
	brick := lipgloss.Color("#FF6F91")
	dim := lipgloss.Color("#6B7A90")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(inkC).
			Foreground(powderC).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slateC).
			Foreground(powderC).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(accentC).
			Bold(true),
		PanelBorder: lipgloss.NewStyle().
			Foreground(slateC),
		PanelBody: lipgloss.NewStyle().
			Foreground(powderC),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentC).
			Background(inkC).
			Foreground(powderC).
			Padding(1, 2),
		OverlayTitle: lipgloss.NewStyle().
			Foreground(accentC).
			Bold(true),
		Accent: lipgloss.NewStyle().
			Foreground(accentC).
			Bold(true),
		Good: lipgloss.NewStyle().
			Foreground(mint).
			Bold(true),
		Warn: lipgloss.NewStyle().
			Foreground(brick).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(dim),
	}
}
