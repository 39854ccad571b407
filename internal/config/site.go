package config

import "encoding/json"

// SiteConfig carries the static settings of the generated site configuration.
// Field names in JSON follow what the site generator expects.
type SiteConfig struct {
	Title                 string        `yaml:"title" json:"title"`
	Tagline               string        `yaml:"tagline,omitempty" json:"tagline,omitempty"`
	Favicon               string        `yaml:"favicon,omitempty" json:"favicon,omitempty"`
	URL                   string        `yaml:"url" json:"url"`
	BaseURL               string        `yaml:"base_url" json:"baseUrl"`
	OrganizationName      string        `yaml:"organization_name,omitempty" json:"organizationName,omitempty"`
	ProjectName           string        `yaml:"project_name,omitempty" json:"projectName,omitempty"`
	OnBrokenLinks         string        `yaml:"on_broken_links" json:"onBrokenLinks"`
	OnBrokenMarkdownLinks string        `yaml:"on_broken_markdown_links" json:"onBrokenMarkdownLinks"`
	I18n                  I18nConfig    `yaml:"i18n" json:"i18n"`
	Presets               PresetsConfig `yaml:"presets" json:"presets"`
	ThemeConfig           ThemeConfig   `yaml:"theme_config" json:"themeConfig"`
}

type I18nConfig struct {
	DefaultLocale string   `yaml:"default_locale" json:"defaultLocale"`
	Locales       []string `yaml:"locales" json:"locales"`
}

// PresetsConfig holds the classic preset and the optional OpenAPI rendering preset.
// It marshals to the generator's [name, options] tuple list.
type PresetsConfig struct {
	Classic ClassicPreset `yaml:"classic"`
	Redoc   *RedocPreset  `yaml:"redoc,omitempty"`
}

type ClassicPreset struct {
	Docs  DocsOptions  `yaml:"docs" json:"docs"`
	Blog  *BlogOptions `yaml:"blog,omitempty" json:"blog,omitempty"`
	Theme struct {
		CustomCSS string `yaml:"custom_css" json:"customCss"`
	} `yaml:"theme" json:"theme"`
}

type DocsOptions struct {
	SidebarPath string `yaml:"sidebar_path" json:"sidebarPath"`
	EditURL     string `yaml:"edit_url,omitempty" json:"editUrl,omitempty"`
}

type BlogOptions struct {
	ShowReadingTime        bool        `yaml:"show_reading_time" json:"showReadingTime"`
	FeedOptions            FeedOptions `yaml:"feed" json:"feedOptions"`
	EditURL                string      `yaml:"edit_url,omitempty" json:"editUrl,omitempty"`
	OnInlineTags           string      `yaml:"on_inline_tags,omitempty" json:"onInlineTags,omitempty"`
	OnInlineAuthors        string      `yaml:"on_inline_authors,omitempty" json:"onInlineAuthors,omitempty"`
	OnUntruncatedBlogPosts string      `yaml:"on_untruncated_blog_posts,omitempty" json:"onUntruncatedBlogPosts,omitempty"`
}

type FeedOptions struct {
	Type []string `yaml:"type" json:"type"`
	XSLT bool     `yaml:"xslt" json:"xslt"`
}

type RedocPreset struct {
	Specs []RedocSpec `yaml:"specs" json:"specs"`
	Theme RedocTheme  `yaml:"theme" json:"theme"`
}

type RedocSpec struct {
	ID    string `yaml:"id" json:"id"`
	Spec  string `yaml:"spec" json:"spec"`
	Route string `yaml:"route" json:"route"`
}

type RedocTheme struct {
	Sidebars     string `yaml:"sidebars,omitempty" json:"sidebars,omitempty"`
	PrimaryColor string `yaml:"primary_color,omitempty" json:"primaryColor,omitempty"`
}

const (
	presetClassic = "classic"
	presetRedoc   = "redocusaurus"
)

// MarshalJSON renders presets as [["classic", {...}], ["redocusaurus", {...}]].
func (p PresetsConfig) MarshalJSON() ([]byte, error) {
	presets := [][2]any{{presetClassic, p.Classic}}
	if p.Redoc != nil {
		presets = append(presets, [2]any{presetRedoc, p.Redoc})
	}
	return json.Marshal(presets)
}

type ThemeConfig struct {
	Image  string       `yaml:"image,omitempty" json:"image,omitempty"`
	Navbar NavbarConfig `yaml:"navbar" json:"navbar"`
	Footer FooterConfig `yaml:"footer" json:"footer"`
	Prism  PrismConfig  `yaml:"prism" json:"prism"`
}

type NavbarConfig struct {
	Title string      `yaml:"title" json:"title"`
	Logo  *LogoConfig `yaml:"logo,omitempty" json:"logo,omitempty"`
	Items []NavItem   `yaml:"items,omitempty" json:"items"`
}

type LogoConfig struct {
	Alt string `yaml:"alt" json:"alt"`
	Src string `yaml:"src" json:"src"`
}

type NavItem struct {
	Type      string `yaml:"type,omitempty" json:"type,omitempty"`
	SidebarID string `yaml:"sidebar_id,omitempty" json:"sidebarId,omitempty"`
	To        string `yaml:"to,omitempty" json:"to,omitempty"`
	Href      string `yaml:"href,omitempty" json:"href,omitempty"`
	Label     string `yaml:"label" json:"label"`
	Position  string `yaml:"position,omitempty" json:"position,omitempty"`
}

type FooterConfig struct {
	Style     string         `yaml:"style" json:"style"`
	Links     []FooterColumn `yaml:"links,omitempty" json:"links"`
	Copyright string         `yaml:"copyright,omitempty" json:"copyright,omitempty"`
}

type FooterColumn struct {
	Title string       `yaml:"title" json:"title"`
	Items []FooterLink `yaml:"items" json:"items"`
}

type FooterLink struct {
	Label string `yaml:"label" json:"label"`
	To    string `yaml:"to,omitempty" json:"to,omitempty"`
	Href  string `yaml:"href,omitempty" json:"href,omitempty"`
}

// PrismConfig names the code highlighting themes.
type PrismConfig struct {
	Theme     string `yaml:"theme" json:"theme"`
	DarkTheme string `yaml:"dark_theme" json:"darkTheme"`
}

func (s *SiteConfig) applyDefaults() {
	if s.Title == "" {
		s.Title = "Documentation Site"
	}
	if s.BaseURL == "" {
		s.BaseURL = "/"
	}
	if s.OnBrokenLinks == "" {
		s.OnBrokenLinks = "throw"
	}
	if s.OnBrokenMarkdownLinks == "" {
		s.OnBrokenMarkdownLinks = "warn"
	}
	if s.I18n.DefaultLocale == "" {
		s.I18n.DefaultLocale = "en"
	}
	if len(s.I18n.Locales) == 0 {
		s.I18n.Locales = []string{s.I18n.DefaultLocale}
	}
	if s.Presets.Classic.Docs.SidebarPath == "" {
		s.Presets.Classic.Docs.SidebarPath = "./sidebars.js"
	}
	if s.Presets.Classic.Theme.CustomCSS == "" {
		s.Presets.Classic.Theme.CustomCSS = "./src/css/custom.css"
	}
	if s.ThemeConfig.Navbar.Title == "" {
		s.ThemeConfig.Navbar.Title = s.Title
	}
	if s.ThemeConfig.Footer.Style == "" {
		s.ThemeConfig.Footer.Style = "dark"
	}
	if s.ThemeConfig.Prism.Theme == "" {
		s.ThemeConfig.Prism.Theme = "github"
	}
	if s.ThemeConfig.Prism.DarkTheme == "" {
		s.ThemeConfig.Prism.DarkTheme = "dracula"
	}
}
