package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phishwise/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██╗  ██╗██╗███████╗██╗  ██╗██╗    ██╗██╗███████╗███████╗
 ██╔══██╗██║  ██║██║██╔════╝██║  ██║██║    ██║██║██╔════╝██╔════╝
 ██████╔╝███████║██║███████╗███████║██║ █╗ ██║██║███████╗█████╗
 ██╔═══╝ ██╔══██║██║╚════██║██╔══██║██║███╗██║██║╚════██║██╔══╝
 ██║     ██║  ██║██║███████║██║  ██║╚███╔███╔╝██║███████║███████╗
 ╚═╝     ╚═╝  ╚═╝╚═╝╚══════╝╚═╝  ╚═╝ ╚══╝╚══╝ ╚═╝╚══════╝╚══════╝`

const bannerCompact = "P H I S H W I S E"

// RenderBanner returns the banner styled in the primary color. Terminals
// narrower than 68 columns get the compact form.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 68 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
