package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads a report configuration from a TOML or YAML file, dispatching on
// the file extension, and fills in documented defaults for absent values.
func Load(path string) (*ReportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report config file: %w", err)
	}

	var cfg ReportConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse report config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse report config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults replaces absent defaults with their documented fallbacks.
func applyDefaults(cfg *ReportConfig) {
	d := &cfg.Defaults
	if d.TitleFontSize == 0 {
		d.TitleFontSize = 14
	}
	if d.SubtitleFontSize == 0 {
		d.SubtitleFontSize = 12
	}
	if d.FootnoteFontSize == 0 {
		d.FootnoteFontSize = 9
	}
	if d.TableStyle == "" {
		d.TableStyle = "Table Style Light 1"
	}
	if d.SpacingRows == nil {
		spacing := 2
		d.SpacingRows = &spacing
	}

	for i := range cfg.Sheets {
		s := &cfg.Sheets[i]
		if s.ProtectiveMarking != "" && s.ProtectiveMarkingSpan == 0 {
			s.ProtectiveMarkingSpan = 10
		}
		for j := range s.Charts {
			c := &s.Charts[j]
			if c.XScale == 0 {
				c.XScale = 1.0
			}
			if c.YScale == 0 {
				c.YScale = 1.0
			}
		}
	}
}
