package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Format selects which Homepage file layout to parse.
type Format string

const (
	FormatBookmarks Format = "bookmarks"
	FormatServices  Format = "services"
)

// templateVar matches Homepage template variables ({{HOMEPAGE_VAR_...}}).
var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads a Homepage bookmarks.yaml or services.yaml file.
type Loader struct {
	filePath string
	format   Format
}

func NewLoader(filePath string, format Format) *Loader {
	return &Loader{
		filePath: filePath,
		format:   format,
	}
}

// Load parses the file and flattens it into entries.
func (l *Loader) Load() ([]Entry, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", l.format, err)
	}

	// Template variables are not resolvable here.
	data = stripTemplateVariables(data)

	switch l.format {
	case FormatBookmarks:
		var cfg BookmarksConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
		}
		return MapBookmarks(cfg), nil
	case FormatServices:
		var cfg ServicesConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse services yaml: %w", err)
		}
		return MapServices(cfg), nil
	default:
		return nil, fmt.Errorf("unknown homepage format %q", l.format)
	}
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
