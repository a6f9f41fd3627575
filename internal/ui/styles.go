package ui

import "charm.land/lipgloss/v2"

// Color palette - deep purple + slate, after the web client's dark theme
var (
	ColorPrimary     = lipgloss.Color("#5E3F75") // Purple
	ColorSecondary   = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted       = lipgloss.Color("#6B7280") // Gray
	ColorBorder      = lipgloss.Color("#374151") // Dark gray
	ColorBorderFocus = lipgloss.Color("#8B5FAF") // Light purple when focused
	ColorBg          = lipgloss.Color("#2D2F33") // Dark background
	ColorText        = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   = lipgloss.Color("#B0B0B0") // Muted text
	ColorTextInverse = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorSelf        = lipgloss.Color("#A78BFA") // Own messages
	ColorPeer        = lipgloss.Color("#22D3EE") // Other senders
	ColorWarning     = lipgloss.Color("#F59E0B") // Amber for warnings
	ColorError       = lipgloss.Color("#EF4444") // Red for errors
	ColorSuccess     = lipgloss.Color("#10B981") // Green for success
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)
)

// Footer styles
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)
)

// Sidebar styles
var (
	SidebarItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	SidebarSelectedStyle = lipgloss.NewStyle().
				Background(ColorPrimary).
				Foreground(ColorText).
				Bold(true).
				Padding(0, 1)

	SidebarSectionStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Italic(true)

	SidebarUnreadStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Bold(true)
)

// Chat styles
var (
	ChatSelfStyle = lipgloss.NewStyle().
			Foreground(ColorSelf).
			Bold(true)

	ChatPeerStyle = lipgloss.NewStyle().
			Foreground(ColorPeer).
			Bold(true)

	ChatTimeStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ChatSeparatorStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)

	ChatAttachmentStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Underline(true)

	ChatInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ChatInputFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus).
				Padding(0, 1)
)

// Status styles
var (
	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	StatusLoadingStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)
)

// Modal styles shared with the modals package
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderFocus).
			Padding(1, 2).
			Width(ModalWidth)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	ModalHelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1).
			Italic(true)
)
