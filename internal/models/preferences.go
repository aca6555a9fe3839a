package models

// Language is the active display language
type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// DefaultLanguage is used when nothing valid is stored
const DefaultLanguage = LanguageFrench

// ParseLanguage returns the matching language, or DefaultLanguage and false.
func ParseLanguage(raw string) (Language, bool) {
	switch l := Language(raw); l {
	case LanguageFrench, LanguageEnglish, LanguageArabic:
		return l, true
	}
	return DefaultLanguage, false
}

// RTL reports whether the language is written right to left
func (l Language) RTL() bool {
	return l == LanguageArabic
}

// Theme is the accent colour id chosen in settings
type Theme string

const (
	ThemeSage    Theme = "sage"
	ThemeSand    Theme = "sand"
	ThemeSky     Theme = "sky"
	ThemeMinimal Theme = "minimal"
)

const DefaultTheme = ThemeSage

// ParseTheme returns the matching theme, or DefaultTheme and false.
func ParseTheme(raw string) (Theme, bool) {
	switch t := Theme(raw); t {
	case ThemeSage, ThemeSand, ThemeSky, ThemeMinimal:
		return t, true
	}
	return DefaultTheme, false
}

// View is one of the navigable modes of the front-end
type View string

const (
	ViewDashboard View = "dashboard"
	ViewFridge    View = "fridge"
	ViewScan      View = "scan"
	ViewRecipes   View = "recipes"
	ViewSettings  View = "settings"
)

// ParseView returns the matching view, falling back to the dashboard.
func ParseView(raw string) (View, bool) {
	switch v := View(raw); v {
	case ViewDashboard, ViewFridge, ViewScan, ViewRecipes, ViewSettings:
		return v, true
	}
	return ViewDashboard, false
}
