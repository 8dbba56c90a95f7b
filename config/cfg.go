package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"unicode/utf8"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"splitflap/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	BoardConfig struct {
		Prefix     string  `yaml:"prefix" validate:"required"`
		Rows       int     `yaml:"rows" validate:"min=1,max=256"`
		Cols       int     `yaml:"cols" validate:"min=1,max=256"`
		FlapTime   float64 `yaml:"flap_time" validate:"gt=0"`
		Characters string  `yaml:"characters" validate:"required"`
	}

	TimelineConfig struct {
		FPS           float64             `yaml:"fps" validate:"gt=0,lte=1000"`
		Tolerance     float64             `yaml:"tolerance" validate:"gte=0"`
		Unmapped      common.UnmappedMode `yaml:"unmapped" validate:"gte=0"`
		DefaultPolicy common.Policy       `yaml:"default_policy" validate:"gte=0"`
		PlanFormat    common.PlanFormat   `yaml:"plan_format" validate:"gte=0"`
	}

	AtlasConfig struct {
		CellWidth          int      `yaml:"cell_width" validate:"min=8,max=4096"`
		CellHeight         int      `yaml:"cell_height" validate:"min=8,max=4096"`
		FlapRatio          float64  `yaml:"flap_ratio" validate:"gt=0"`
		CharWidth          float64  `yaml:"char_width" validate:"gt=0,lte=1"`
		CharHeight         float64  `yaml:"char_height" validate:"gt=0,lte=1"`
		Font               string   `yaml:"font"`
		FontDirs           []string `yaml:"font_dirs" validate:"dive,required"`
		FontColor          string   `yaml:"font_color" validate:"required"`
		BackgroundColor    string   `yaml:"background_color" validate:"required"`
		OutputNameTemplate string   `yaml:"output_name_template"`
	}

	PreviewConfig struct {
		CellWidth  int     `yaml:"cell_width" validate:"min=4"`
		CellHeight int     `yaml:"cell_height" validate:"min=4"`
		GapX       int     `yaml:"gap_x" validate:"gte=0"`
		GapY       int     `yaml:"gap_y" validate:"gte=0"`
		Radius     float64 `yaml:"radius" validate:"gte=0"`
		FontFamily string  `yaml:"font_family" validate:"required"`
		Board      string  `yaml:"board_color" validate:"required"`
		Flap       string  `yaml:"flap_color" validate:"required"`
		Text       string  `yaml:"text_color" validate:"required"`
		GIFStep    float64 `yaml:"gif_step" validate:"gte=0.01"`
	}

	ScriptConfig struct {
		Language string  `yaml:"language" validate:"required,bcp47_language_tag"`
		Hold     float64 `yaml:"hold" validate:"gte=0"`
	}

	ProjectConfig struct {
		Database string `yaml:"database" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Project   ProjectConfig  `yaml:"project"`
		Board     BoardConfig    `yaml:"board"`
		Timeline  TimelineConfig `yaml:"timeline"`
		Atlas     AtlasConfig    `yaml:"atlas"`
		Preview   PreviewConfig  `yaml:"preview"`
		Script    ScriptConfig   `yaml:"script"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

var colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// checkConfig covers what cannot be expressed with field tags.
func checkConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	seen := make(map[rune]struct{}, len(cfg.Board.Characters))
	for _, r := range cfg.Board.Characters {
		if _, dup := seen[r]; dup || r == utf8.RuneError {
			sl.ReportError(cfg.Board.Characters, "Characters", "characters", "unique_runes", "")
			break
		}
		seen[r] = struct{}{}
	}

	colors := []struct {
		value, field string
	}{
		{cfg.Atlas.FontColor, "FontColor"},
		{cfg.Atlas.BackgroundColor, "BackgroundColor"},
		{cfg.Preview.Board, "Board"},
		{cfg.Preview.Flap, "Flap"},
		{cfg.Preview.Text, "Text"},
	}
	for _, c := range colors {
		if !colorRe.MatchString(c.value) {
			sl.ReportError(c.value, c.field, c.field, "color", "")
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("configuration sanitizing failed: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
