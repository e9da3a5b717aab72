// Package config reads the analysis options shared by the commands
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xcfem/xc-sub010/internal/check"
	"github.com/xcfem/xc-sub010/internal/crack"
	"github.com/xcfem/xc-sub010/internal/interaction"
	"github.com/xcfem/xc-sub010/internal/material"
)

// Config holds the options of a run. Values missing from a file keep their
// defaults.
type Config struct {
	DiagramType string                `json:"diagram" yaml:"diagram"` // "d" (design) or "k" (characteristic)
	Sweep       interaction.SweepSpec `json:"sweep" yaml:"sweep"`
	Crack       crack.Options         `json:"crack" yaml:"crack"`
	Design      check.DesignOptions   `json:"design" yaml:"design"`
}

// SetDefault sets default values
func (o *Config) SetDefault() {
	o.DiagramType = "d"
	o.Sweep.SetDefault()
	o.Crack.SetDefault()
	o.Design.SetDefault()
}

// Default returns a config with default values
func Default() *Config {
	o := new(Config)
	o.SetDefault()
	return o
}

// Load reads a JSON or YAML file over the defaults; an empty path returns
// the defaults
func Load(path string) (*Config, error) {
	o := Default()
	if path == "" {
		return o, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, o)
	default:
		err = json.Unmarshal(data, o)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// Validate checks the values that have no usable meaning
func (o *Config) Validate() error {
	if _, err := material.ParseDiagramType(o.DiagramType); err != nil {
		return err
	}
	if o.Sweep.NumAngles < 3 {
		return fmt.Errorf("sweep needs at least 3 angles, got %d", o.Sweep.NumAngles)
	}
	if o.Sweep.NumPoints < 3 {
		return fmt.Errorf("sweep needs at least 3 points per meridian, got %d", o.Sweep.NumPoints)
	}
	if o.Sweep.DefaultTensionLimit <= 0 || o.Sweep.DefaultCompressionLimit >= 0 {
		return fmt.Errorf("default strain limits must be positive in tension and negative in compression")
	}
	if o.Design.MinFactor <= 0 || o.Design.MaxFactor <= o.Design.MinFactor {
		return fmt.Errorf("design factor range [%g, %g] is empty", o.Design.MinFactor, o.Design.MaxFactor)
	}
	return nil
}

// Type returns the material diagram type
func (o *Config) Type() material.DiagramType {
	t, err := material.ParseDiagramType(o.DiagramType)
	if err != nil {
		return material.Design
	}
	return t
}
