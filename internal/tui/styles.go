package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/inmobiliaria/storefront/internal/models"
)

// styles derives the terminal palette from the tenant branding
type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	primary   lipgloss.Style
	secondary lipgloss.Style
	muted     lipgloss.Style
	errorText lipgloss.Style
	selected  lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	bold      lipgloss.Style
	box       lipgloss.Style
	footer    lipgloss.Style
}

func newStyles(cfg models.AppConfig) styles {
	primary := color(cfg.PrimaryColor, "#2563EB")
	secondary := color(cfg.SecondaryColor, "#10B981")

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(primary),
		header:    lipgloss.NewStyle().Foreground(color(cfg.MenuItemColor, "#374151")),
		primary:   lipgloss.NewStyle().Foreground(primary),
		secondary: lipgloss.NewStyle().Foreground(secondary),
		muted:     lipgloss.NewStyle().Faint(true),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(color(cfg.MenuItemHoverColor, "#2563EB")),
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		assistant: lipgloss.NewStyle().Bold(true).Foreground(secondary),
		bold:      lipgloss.NewStyle().Bold(true),
		box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1),
		footer: lipgloss.NewStyle().
			Foreground(color(cfg.FooterTextColor, "#ffffff")).
			Background(color(cfg.FooterBgColor, "#1f2937")).
			Padding(0, 1),
	}
}

func color(hex, fallback string) lipgloss.Color {
	if strings.HasPrefix(hex, "#") {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(fallback)
}

// category returns the style for a category heading
func (s styles) category(c models.Category) lipgloss.Style {
	if c.Color == "" {
		return s.title
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Color))
}

// formatPrice renders a price with dot thousands separators
func formatPrice(price float64) string {
	if price <= 0 {
		return "Consultar"
	}
	return "$ " + strings.ReplaceAll(humanize.Comma(int64(price)), ",", ".")
}
