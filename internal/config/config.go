// Package config loads the geodraw configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/philipparndt/geodraw/pkg/dragger"
	"github.com/philipparndt/geodraw/pkg/draw"
	"github.com/philipparndt/geodraw/pkg/edit"
	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/geometry"
	"github.com/philipparndt/geodraw/pkg/plotter"
	"github.com/philipparndt/geodraw/pkg/stl"
	"github.com/philipparndt/geodraw/pkg/style"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file used when none is given
const DefaultPath = "~/.geodraw.yaml"

// ErrUnknownFormat is returned for files that are neither YAML nor TOML
var ErrUnknownFormat = errors.New("unknown configuration format")

// Config is the content of a configuration file
type Config struct {
	Kinds    map[string]Kind   `yaml:"kinds" toml:"kinds"`
	Draggers map[string]string `yaml:"draggers" toml:"draggers"`
	Messages Messages          `yaml:"messages" toml:"messages"`
	Origin   Origin            `yaml:"origin" toml:"origin"`
	Snapshot Snapshot          `yaml:"snapshot" toml:"snapshot"`
	Watch    Watch             `yaml:"watch" toml:"watch"`
	Models   Models            `yaml:"models" toml:"models"`

	// EditOnCreate starts editing every feature once it is drawn
	EditOnCreate bool `yaml:"editOnCreate" toml:"editOnCreate"`
}

// Kind overrides the rules and default style of one kind. Unset fields
// keep the built-in values; a MaxPoints of 0 means unbounded.
type Kind struct {
	MinPoints  *int           `yaml:"minPoints" toml:"minPoints"`
	MaxPoints  *int           `yaml:"maxPoints" toml:"maxPoints"`
	AutoFinish *bool          `yaml:"autoFinish" toml:"autoFinish"`
	Style      map[string]any `yaml:"style" toml:"style"`
}

// Messages are tooltip texts. Empty texts keep the built-in ones.
type Messages struct {
	Draw DrawMessages `yaml:"draw" toml:"draw"`
	Edit EditMessages `yaml:"edit" toml:"edit"`
}

type DrawMessages struct {
	Start     string `yaml:"start" toml:"start"`
	Continue  string `yaml:"continue" toml:"continue"`
	Finish    string `yaml:"finish" toml:"finish"`
	MinPoints string `yaml:"minPoints" toml:"minPoints"`
}

type EditMessages struct {
	DragPoint     string `yaml:"dragPoint" toml:"dragPoint"`
	DragMidPoint  string `yaml:"dragMidPoint" toml:"dragMidPoint"`
	DragAll       string `yaml:"dragAll" toml:"dragAll"`
	DragHeight    string `yaml:"dragHeight" toml:"dragHeight"`
	DragAttribute string `yaml:"dragAttribute" toml:"dragAttribute"`
	MinPoints     string `yaml:"minPoints" toml:"minPoints"`
}

// Origin is where hosts center their scene
type Origin struct {
	Lon    float64 `yaml:"lon" toml:"lon"`
	Lat    float64 `yaml:"lat" toml:"lat"`
	Height float64 `yaml:"height" toml:"height"`
}

// Snapshot controls the side-car file written next to exchange files
type Snapshot struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// Watch controls file reloading
type Watch struct {
	Debounce string `yaml:"debounce" toml:"debounce"`
}

// Models controls how model features are sized
type Models struct {
	// Unit is the length of one STL unit in meters
	Unit float64 `yaml:"unit" toml:"unit"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Kinds:    map[string]Kind{},
		Draggers: map[string]string{},
		Origin:   Origin{Lon: 8.5417, Lat: 47.3769},
		Snapshot: Snapshot{Enabled: true},
		Watch:    Watch{Debounce: "200ms"},
		Models:   Models{Unit: 0.001},
	}
}

// Load reads the configuration at path. The default path may be missing,
// in which case the built-in configuration is returned.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand %s: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(expanded))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", expanded, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by a file extension
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize lowercases kind names and rewrites snake_case and kebab-case
// point types to their lowerCamel form. Style keys are normalized by
// style.Parse.
func (c *Config) normalize() {
	kinds := make(map[string]Kind, len(c.Kinds))
	for name, k := range c.Kinds {
		kinds[strings.ToLower(name)] = k
	}
	c.Kinds = kinds

	draggers := make(map[string]string, len(c.Draggers))
	for key, v := range c.Draggers {
		draggers[normalizeKey(key)] = v
	}
	c.Draggers = draggers
}

func normalizeKey(key string) string {
	if _, ok := dragger.ParsePointType(key); ok {
		return key
	}
	if camel := strcase.ToLowerCamel(key); camel != key {
		if _, ok := dragger.ParsePointType(camel); ok {
			return camel
		}
	}
	return key
}

// Validate checks kinds, colors and durations
func (c *Config) Validate() error {
	if _, err := c.Registry(); err != nil {
		return err
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	if _, err := c.Debounce(); err != nil {
		return err
	}
	if c.Origin.Lat < -90 || c.Origin.Lat > 90 {
		return fmt.Errorf("origin latitude %v out of range", c.Origin.Lat)
	}
	return nil
}

// Rules returns the effective point rules of kind
func (k Kind) Rules(kind style.Kind) feature.Rules {
	rules := feature.DefaultRules(kind)
	if k.MinPoints != nil {
		rules.MinPoints = *k.MinPoints
	}
	if k.MaxPoints != nil {
		rules.MaxPoints = *k.MaxPoints
		if rules.MaxPoints == 0 {
			rules.MaxPoints = feature.Unbounded
		}
	}
	if k.AutoFinish != nil {
		rules.AutoFinish = *k.AutoFinish
	}
	return rules
}

// Registry builds the kind registry
func (c *Config) Registry() (*plotter.Registry, error) {
	overrides := make(map[style.Kind]plotter.KindConfig, len(c.Kinds))
	for name, k := range c.Kinds {
		kind, err := style.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("kinds: %w", err)
		}
		overrides[kind] = plotter.KindConfig{Rules: k.Rules(kind), Style: k.Style}
	}
	registry, err := plotter.NewRegistry(overrides)
	if err != nil {
		return nil, fmt.Errorf("kinds: %w", err)
	}
	return registry, nil
}

// Colors returns the dragger colors
func (c *Config) Colors() (dragger.Colors, error) {
	colors := dragger.Colors{}
	for name, value := range c.Draggers {
		t, ok := dragger.ParsePointType(name)
		if !ok {
			return nil, fmt.Errorf("draggers: unknown point type %q", name)
		}
		color, err := style.ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("draggers: %s: %w", name, err)
		}
		colors[t] = color
	}
	return colors, nil
}

// Debounce returns the watch debounce interval
func (c *Config) Debounce() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return 200 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch: invalid debounce: %w", err)
	}
	return d, nil
}

// Center returns the scene origin
func (c *Config) Center() geometry.Cartographic {
	return geometry.NewCartographic(c.Origin.Lon, c.Origin.Lat, c.Origin.Height)
}

// DrawMessages returns the draw tooltips with built-in fallbacks
func (c *Config) DrawMessages() draw.Messages {
	m := draw.DefaultMessages()
	override(&m.Start, c.Messages.Draw.Start)
	override(&m.Continue, c.Messages.Draw.Continue)
	override(&m.Finish, c.Messages.Draw.Finish)
	override(&m.MinPoints, c.Messages.Draw.MinPoints)
	return m
}

// EditMessages returns the edit tooltips with built-in fallbacks
func (c *Config) EditMessages() edit.Messages {
	m := edit.DefaultMessages()
	override(&m.DragPoint, c.Messages.Edit.DragPoint)
	override(&m.DragMidPoint, c.Messages.Edit.DragMidPoint)
	override(&m.DragAll, c.Messages.Edit.DragAll)
	override(&m.DragHeight, c.Messages.Edit.DragHeight)
	override(&m.DragAttribute, c.Messages.Edit.DragAttribute)
	override(&m.MinPoints, c.Messages.Edit.MinPoints)
	return m
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// PlotterOptions assembles the options of a plotter
func (c *Config) PlotterOptions(logger *slog.Logger) (plotter.Options, error) {
	registry, err := c.Registry()
	if err != nil {
		return plotter.Options{}, err
	}
	colors, err := c.Colors()
	if err != nil {
		return plotter.Options{}, err
	}

	sizer := stl.NewSizer(logger)
	if c.Models.Unit > 0 {
		sizer.Scale = c.Models.Unit
	}

	return plotter.Options{
		Registry:     registry,
		Logger:       logger,
		Colors:       colors,
		DrawMessages: c.DrawMessages(),
		EditMessages: c.EditMessages(),
		ModelSize:    sizer.Size,
		EditOnCreate: c.EditOnCreate,
	}, nil
}
