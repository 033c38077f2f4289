package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FeedsFile is the on-disk list of subscribed teams plus run-wide defaults.
type FeedsFile struct {
	OutputDir       string       `yaml:"output_dir" toml:"output_dir"`
	DefaultTimezone string       `yaml:"default_timezone" toml:"default_timezone"`
	GameDuration    string       `yaml:"game_duration" toml:"game_duration"`
	Teams           []TeamConfig `yaml:"teams" toml:"teams"`
}

// LoadFeedsFile reads a YAML (.yaml/.yml) or TOML (.toml) feeds file.
func LoadFeedsFile(path string) (FeedsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FeedsFile{}, err
	}
	return ParseFeedsFile(data, filepath.Ext(path))
}

// ParseFeedsFile decodes feeds file contents; ext selects the format.
func ParseFeedsFile(data []byte, ext string) (FeedsFile, error) {
	var f FeedsFile
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return FeedsFile{}, fmt.Errorf("parse toml: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return FeedsFile{}, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return FeedsFile{}, fmt.Errorf("unsupported config format %q", ext)
	}
	return f, nil
}
