package ingest

import (
	"embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the configuration for all tender data sources.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// FetchConfig defines HTTP fetching configuration for a source.
type FetchConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"` // Default: 30
	MaxRetries     int     `yaml:"max_retries,omitempty"`     // Default: 3
	RateLimitRPS   float64 `yaml:"rate_limit_rps,omitempty"`  // Requests per second, default: 1.0
}

// SourceConfig defines a single tender source.
type SourceConfig struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Strategy  string   `yaml:"strategy"` // "api_json", "html_listing"
	BaseURL   string   `yaml:"base_url,omitempty"`
	ScoresURL string   `yaml:"scores_url,omitempty"`
	APIKey    string   `yaml:"api_key,omitempty"`
	Seeds     []string `yaml:"seed_urls,omitempty"`
	Active    bool     `yaml:"active"`

	Fetch FetchConfig `yaml:"fetch,omitempty"`

	// For the html_listing strategy.
	Selectors SelectorConfig `yaml:"selectors,omitempty"`
	MaxPages  int            `yaml:"max_pages,omitempty"`
}

// SelectorConfig names the CSS selectors used to pull listing rows out of a
// portal page.
type SelectorConfig struct {
	Container    string `yaml:"container,omitempty"` // wrapper for one listing row
	ID           string `yaml:"id,omitempty"`
	Description  string `yaml:"description,omitempty"`
	Organization string `yaml:"organization,omitempty"`
	Location     string `yaml:"location,omitempty"`
	Amount       string `yaml:"amount,omitempty"`
	Date         string `yaml:"date,omitempty"`
	NoticeLink   string `yaml:"notice_link,omitempty"` // anchor to the notice PDF
	NextPage     string `yaml:"next_page,omitempty"`
}

// LoadRegistry reads the embedded sources.yaml and returns a Registry.
// The path parameter is a filesystem fallback for local development.
func LoadRegistry(path string) (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	// Expand environment variables within the YAML content (e.g. ${API_KEY})
	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, err
	}

	return &reg, nil
}

// FindSource returns the config for a source ID, or nil when unknown.
func (r *Registry) FindSource(id string) *SourceConfig {
	for i := range r.Sources {
		if r.Sources[i].ID == id {
			return &r.Sources[i]
		}
	}
	return nil
}
