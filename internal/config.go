package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/meshbake/internal/extract"
	"github.com/starford/meshbake/internal/render"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Paths   PathsConfig       `yaml:"paths"`
	Extract ExtractConfig     `yaml:"extract"`
	Render  RenderConfig      `yaml:"render"`
	Watch   WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Paths.Validate(); err != nil {
		return fmt.Errorf("paths: %w", err)
	}
	if err := c.Extract.Validate(); err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// PathsConfig names the three files the pipeline touches. Source,
// Intermediate and Output are relative to Root.
type PathsConfig struct {
	Root         string `yaml:"root"`
	Source       string `yaml:"source"`
	Intermediate string `yaml:"intermediate"`
	Output       string `yaml:"output"`
}

// Validate validates the paths configuration.
func (c *PathsConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Source, validation.Required, relativePath),
		validation.Field(&c.Intermediate, validation.Required, relativePath),
		validation.Field(&c.Output, validation.Required, relativePath),
	); err != nil {
		return err
	}
	if c.Intermediate == c.Source || c.Output == c.Source || c.Output == c.Intermediate {
		return fmt.Errorf("source, intermediate and output must be distinct files")
	}
	return nil
}

// relativePath rejects absolute paths; workspace files resolve against Root.
var relativePath = validation.By(func(value interface{}) error {
	if p, _ := value.(string); filepath.IsAbs(p) {
		return errors.New("must be relative to paths.root")
	}
	return nil
})

// ExtractConfig holds the block markers searched for in the source document.
type ExtractConfig struct {
	VerticesMarker string `yaml:"vertices_marker"`
	IndicesMarker  string `yaml:"indices_marker"`
	AllowMissing   bool   `yaml:"allow_missing"`
}

// Validate validates the extract configuration.
func (c *ExtractConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.VerticesMarker, validation.Required),
		validation.Field(&c.IndicesMarker, validation.Required),
	); err != nil {
		return err
	}
	if c.VerticesMarker == c.IndicesMarker {
		return fmt.Errorf("vertices_marker and indices_marker must differ")
	}
	return nil
}

// Options converts the configuration into extractor options.
func (c *ExtractConfig) Options() extract.Options {
	return extract.Options{
		VerticesMarker: c.VerticesMarker,
		IndicesMarker:  c.IndicesMarker,
		AllowMissing:   c.AllowMissing,
	}
}

// RenderConfig holds the layout of the generated Swift file.
//
// Strict turns mesh check issues (lengths not divisible by 3, indices past
// the last vertex) into a failed render. Without it they are only logged.
type RenderConfig struct {
	TypeName  string `yaml:"type_name"`
	Import    string `yaml:"import"`
	PerLine   int    `yaml:"per_line"`
	Indent    int    `yaml:"indent"`
	Precision int    `yaml:"precision"`
	Strict    bool   `yaml:"strict"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TypeName, validation.Required),
		validation.Field(&c.PerLine, validation.Required, validation.Min(1)),
		validation.Field(&c.Indent, validation.Min(0), validation.Max(32)),
		validation.Field(&c.Precision, validation.Min(0), validation.Max(17)),
	)
}

// Options converts the configuration into renderer options.
func (c *RenderConfig) Options() render.Options {
	return render.Options{
		TypeName:  c.TypeName,
		Import:    c.Import,
		PerLine:   c.PerLine,
		Indent:    c.Indent,
		Precision: c.Precision,
	}
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config reproducing the cloth demo layout.
func NewDefaultConfig() *Config {
	eo := extract.DefaultOptions()
	ro := render.DefaultOptions()
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Paths: PathsConfig{
			Root:         ".",
			Source:       "14-cloth.html",
			Intermediate: "Elements/ClothData.json",
			Output:       "Elements/ClothReferenceData.swift",
		},
		Extract: ExtractConfig{
			VerticesMarker: eo.VerticesMarker,
			IndicesMarker:  eo.IndicesMarker,
			AllowMissing:   eo.AllowMissing,
		},
		Render: RenderConfig{
			TypeName:  ro.TypeName,
			Import:    ro.Import,
			PerLine:   ro.PerLine,
			Indent:    ro.Indent,
			Precision: ro.Precision,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}
