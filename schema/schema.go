package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spektr-org/surveyviz/engine"
)

// ============================================================================
// SCHEMA — Chart configuration for a survey dataset
// ============================================================================
// A Config lists chart definitions: which field feeds which aggregation, and
// how the result is displayed. Field names are data, not code, so the same
// pipeline runs over any survey export.
// ============================================================================

// Config describes every chart built from one dataset.
type Config struct {
	Name        string            `json:"name"`
	Version     string            `json:"version,omitempty"`
	Description string            `json:"description,omitempty"`
	Charts      []engine.ChartDef `json:"charts"`
}

// Default returns the developer survey dashboard configuration.
func Default() *Config {
	cfg := &Config{
		Name:        "Developer Survey Insights",
		Version:     "1",
		Description: "Stack Overflow developer survey: languages, employment, education, salary, remote work.",
		Charts: []engine.ChartDef{
			{
				ID:       "language-chart",
				Kind:     engine.KindBar,
				Title:    "Programming Language Popularity",
				Field:    "LanguageHaveWorkedWith",
				Strategy: engine.StrategyMultiValue,
				Limit:    10,
				Display:  engine.Display{Horizontal: true},
			},
			{
				ID:       "employment-chart",
				Kind:     engine.KindPie,
				Title:    "Employment Status",
				Field:    "Employment",
				Strategy: engine.StrategyCategorical,
			},
			{
				ID:       "education-chart",
				Kind:     engine.KindPie,
				Title:    "Education Level",
				Field:    "EdLevel",
				Strategy: engine.StrategyCategorical,
			},
			{
				ID:       "salary-chart",
				Kind:     engine.KindBar,
				Title:    "Salary Distribution",
				Field:    "ConvertedCompYearly",
				Strategy: engine.StrategyHistogram,
				BinLabel: "thousands",
				Display: engine.Display{
					XAxisTitle: "Salary (USD)",
					YAxisTitle: "Frequency",
				},
			},
			{
				ID:       "remote-chart",
				Kind:     engine.KindDoughnut,
				Title:    "Remote Work",
				Field:    "RemoteWork",
				Strategy: engine.StrategyCategorical,
				Palette: []engine.Color{
					engine.RGBA(255, 99, 132, 0.6),
					engine.RGBA(54, 162, 235, 0.6),
					engine.RGBA(255, 206, 86, 0.6),
				},
			},
		},
	}
	cfg.SetDefaults()
	return cfg
}

// Load reads a JSON config file, fills defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON config, fills defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills the domain defaults a definition leaves out.
func (c *Config) SetDefaults() {
	for i := range c.Charts {
		d := &c.Charts[i]
		if d.Kind == "" {
			d.Kind = engine.KindBar
		}
		if d.Display.TitleSize == 0 {
			d.Display.TitleSize = 16
		}
		if d.Display.Legend == "" {
			if d.Kind.IsCircular() {
				d.Display.Legend = "right"
			} else {
				d.Display.Legend = "hidden"
			}
		}

		switch d.Strategy {
		case engine.StrategyMultiValue:
			if d.Separator == "" {
				d.Separator = engine.DefaultSeparator
			}
		case engine.StrategyHistogram:
			if d.Bins == 0 {
				d.Bins = engine.DefaultBins
			}
			if d.Bounds == nil {
				b := engine.DefaultBounds
				d.Bounds = &b
			}
		}
	}
}

// ============================================================================
// VALIDATION
// ============================================================================

// ValidationError lists every problem found in a Config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid chart config: " + strings.Join(e.Problems, "; ")
}

// ErrInvalid is matched by every *ValidationError via errors.Is.
var ErrInvalid = errors.New("invalid chart config")

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

var validLegends = map[string]bool{
	"hidden": true, "top": true, "right": true, "bottom": true, "left": true,
}

// Validate checks every chart definition and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string
	addf := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(c.Charts) == 0 {
		addf("no charts defined")
	}

	seen := make(map[string]bool)
	for i, d := range c.Charts {
		name := d.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
			addf("chart %s: id is required", name)
		} else if seen[strings.ToLower(d.ID)] {
			// ids name files and worksheets, which may ignore case
			addf("chart %s: duplicate id", name)
		}
		seen[strings.ToLower(d.ID)] = true

		if d.Field == "" {
			addf("chart %s: field is required", name)
		}

		switch d.Kind {
		case engine.KindBar, engine.KindPie, engine.KindDoughnut:
		default:
			addf("chart %s: unknown kind %q", name, d.Kind)
		}

		switch d.Strategy {
		case engine.StrategyCategorical, engine.StrategyMultiValue:
		case engine.StrategyHistogram:
			if d.Bins < 1 {
				addf("chart %s: bins must be at least 1", name)
			}
			if d.Bounds != nil && !(d.Bounds.Low < d.Bounds.High) {
				addf("chart %s: bounds low must be below high", name)
			}
		default:
			addf("chart %s: unknown strategy %q", name, d.Strategy)
		}

		if d.Limit < 0 {
			addf("chart %s: limit must not be negative", name)
		}
		if d.Display.Legend != "" && !validLegends[d.Display.Legend] {
			addf("chart %s: unknown legend position %q", name, d.Display.Legend)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ChartIDs returns every chart id in order.
func (c Config) ChartIDs() []string {
	ids := make([]string, len(c.Charts))
	for i, d := range c.Charts {
		ids[i] = d.ID
	}
	return ids
}

// Fields returns the distinct source fields the charts read, in order.
func (c Config) Fields() []string {
	seen := make(map[string]bool)
	var fields []string
	for _, d := range c.Charts {
		if d.Field != "" && !seen[d.Field] {
			seen[d.Field] = true
			fields = append(fields, d.Field)
		}
	}
	return fields
}

// MissingFields returns configured fields that do not appear in keys.
func (c Config) MissingFields(keys []string) []string {
	have := make(map[string]bool, len(keys))
	for _, k := range keys {
		have[k] = true
	}
	var missing []string
	for _, f := range c.Fields() {
		if !have[f] {
			missing = append(missing, f)
		}
	}
	return missing
}
