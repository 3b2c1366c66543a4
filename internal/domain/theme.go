package domain

// Built-in colors used when a theme leaves a role unset.
const (
	DefaultBackground     = "#121212"
	DefaultForeground     = "#FFFFFF"
	DefaultUserBackground = "#1e88e5"
	DefaultUserForeground = "#ffffff"
)

// Theme assigns colors to named roles. Every role is optional; see Resolve
// for the fallback chain.
type Theme struct {
	Background      string `json:"bg,omitempty" yaml:"bg,omitempty"`
	Foreground      string `json:"fg,omitempty" yaml:"fg,omitempty"`
	UserBackground  string `json:"user_bg,omitempty" yaml:"user_bg,omitempty"`
	UserForeground  string `json:"user_fg,omitempty" yaml:"user_fg,omitempty"`
	BotBackground   string `json:"bot_bg,omitempty" yaml:"bot_bg,omitempty"`
	BotForeground   string `json:"bot_fg,omitempty" yaml:"bot_fg,omitempty"`
	ClearBackground string `json:"clear_bg,omitempty" yaml:"clear_bg,omitempty"`
	ClearForeground string `json:"clear_fg,omitempty" yaml:"clear_fg,omitempty"`
	ThemeBackground string `json:"theme_bg,omitempty" yaml:"theme_bg,omitempty"`
	ThemeForeground string `json:"theme_fg,omitempty" yaml:"theme_fg,omitempty"`
}

// DefaultTheme is applied when a user has never picked a theme.
func DefaultTheme() Theme {
	return Theme{Background: DefaultBackground, Foreground: DefaultForeground}
}

// IsZero reports whether no role is set.
func (t Theme) IsZero() bool {
	return t == Theme{}
}

// NamedTheme is one catalog entry.
type NamedTheme struct {
	Name  string
	Theme Theme
}

// Palette is a Theme with every role filled in.
type Palette struct {
	Background      string
	Foreground      string
	UserBackground  string
	UserForeground  string
	BotBackground   string
	BotForeground   string
	ClearBackground string
	ClearForeground string
	ThemeBackground string
	ThemeForeground string
}

// Resolve fills unset roles: bot bubbles fall back to the general colors,
// the clear-history and change-theme buttons fall back to the user bubble
// colors, and unset general colors use the dark built-in default.
func (t Theme) Resolve() Palette {
	p := Palette{
		Background:     CoalesceStr(t.Background, DefaultBackground),
		Foreground:     CoalesceStr(t.Foreground, DefaultForeground),
		UserBackground: CoalesceStr(t.UserBackground, DefaultUserBackground),
		UserForeground: CoalesceStr(t.UserForeground, DefaultUserForeground),
	}
	p.BotBackground = CoalesceStr(t.BotBackground, p.Background)
	p.BotForeground = CoalesceStr(t.BotForeground, p.Foreground)
	p.ClearBackground = CoalesceStr(t.ClearBackground, p.UserBackground)
	p.ClearForeground = CoalesceStr(t.ClearForeground, p.UserForeground)
	p.ThemeBackground = CoalesceStr(t.ThemeBackground, p.UserBackground)
	p.ThemeForeground = CoalesceStr(t.ThemeForeground, p.UserForeground)
	return p
}
