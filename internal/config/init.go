package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const exampleDescriptors = `[
  { "author": "example", "repo": "service-a", "branch": "main" },
  { "author": "example", "repo": "service-b", "branch": "develop" }
]
`

// Init creates a new configuration file with example content, plus an example
// descriptor list next to it.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	descriptorsPath := filepath.Join(filepath.Dir(configPath), DefaultDescriptorsFile)
	example := Config{
		GitHub: GitHubConfig{
			APIURL: DefaultAPIURL,
			RawURL: DefaultRawURL,
			Token:  "${GITHUB_TOKEN}",
			Source: TreeSourceAPI,
		},
		Resolver: ResolverConfig{
			Concurrency: DefaultConcurrency,
			Timeout:     DefaultTimeout.String(),
			Retry: RetryConfig{
				Backoff:      RetryBackoffExponential,
				InitialDelay: "1s",
				MaxDelay:     "10s",
			},
		},
		DescriptorsFile: DefaultDescriptorsFile,
		Output:          OutputConfig{Path: DefaultOutputPath},
		Serve:           ServeConfig{Addr: DefaultServeAddr, Interval: DefaultInterval.String()},
		Site: SiteConfig{
			Title:            "My Site",
			Tagline:          "Documentation mirrored from our repositories",
			Favicon:          "img/favicon.ico",
			URL:              "https://docs.example.com",
			BaseURL:          "/",
			OrganizationName: "example",
			ProjectName:      "docs",
			Presets: PresetsConfig{
				Classic: ClassicPreset{
					Docs: DocsOptions{SidebarPath: "./sidebars.js"},
					Blog: &BlogOptions{
						ShowReadingTime: true,
						FeedOptions:     FeedOptions{Type: []string{"rss", "atom"}, XSLT: true},
					},
				},
				Redoc: &RedocPreset{
					Specs: []RedocSpec{{ID: "local-api-doc", Spec: "openapi/openapi.yaml", Route: "/api"}},
					Theme: RedocTheme{Sidebars: "none", PrimaryColor: "#1890ff"},
				},
			},
			ThemeConfig: ThemeConfig{
				Navbar: NavbarConfig{
					Title: "My Site",
					Logo:  &LogoConfig{Alt: "My Site Logo", Src: "img/logo.svg"},
					Items: []NavItem{
						{Type: "docSidebar", SidebarID: "tutorialSidebar", Position: "left", Label: "Docs"},
						{To: "/blog", Label: "Blog", Position: "left"},
					},
				},
				Footer: FooterConfig{
					Style:     "dark",
					Copyright: "Copyright © {year} Example, Inc.",
				},
			},
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if _, err := os.Stat(descriptorsPath); err == nil && !force {
		return nil
	}
	if err := os.WriteFile(descriptorsPath, []byte(exampleDescriptors), 0o644); err != nil {
		return fmt.Errorf("failed to write descriptor file: %w", err)
	}
	return nil
}
