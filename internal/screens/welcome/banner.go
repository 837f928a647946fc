package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/tanmay/resona/internal/ui/layout"
	"github.com/tanmay/resona/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ███████╗███████╗ ██████╗ ███╗   ██╗ █████╗
 ██╔══██╗██╔════╝██╔════╝██╔═══██╗████╗  ██║██╔══██╗
 ██████╔╝█████╗  ███████╗██║   ██║██╔██╗ ██║███████║
 ██╔══██╗██╔══╝  ╚════██║██║   ██║██║╚██╗██║██╔══██║
 ██║  ██║███████╗███████║╚██████╔╝██║ ╚████║██║  ██║
 ╚═╝  ╚═╝╚══════╝╚══════╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═╝`

const bannerCompact = "R E S O N A"

// RenderBanner returns the RESONA banner styled in the primary color.
// Falls back to the one-line wordmark when the terminal is narrower
// than the art or too short to spend seven rows on it.
func RenderBanner(width, height int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 56 || layout.IsCompactHeight(height) {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
