package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/uireg/pkg/discovery"
	"github.com/gnana997/uireg/pkg/util"
)

// configPath is the project config location relative to the project root.
const configPath = ".uireg/config.yaml"

// ProjectConfig holds the contents of .uireg/config.yaml.
type ProjectConfig struct {
	ComponentsDir  string   `yaml:"components_dir" validate:"required"`
	BlocksDir      string   `yaml:"blocks_dir"`
	OutDir         string   `yaml:"out_dir" validate:"required"`
	CacheDir       string   `yaml:"cache_dir" validate:"required"`
	DemoPath       string   `yaml:"demo_path"`
	PrimitivesFile string   `yaml:"primitives_file"`
	StylesCommand  []string `yaml:"styles_command" validate:"omitempty,dive,required"`
	Include        []string `yaml:"include" validate:"omitempty,dive,required"`
	Exclude        []string `yaml:"exclude" validate:"omitempty,dive,required"`
	LogFormat      string   `yaml:"log_format" validate:"omitempty,oneof=text json"`

	Overrides map[string]discovery.Override `yaml:"overrides" validate:"omitempty,dive,keys,component_name,endkeys"`
}

// envOverrides maps environment variables onto path settings.
var envOverrides = map[string]func(*ProjectConfig, string){
	"UIREG_COMPONENTS_DIR": func(c *ProjectConfig, v string) { c.ComponentsDir = v },
	"UIREG_BLOCKS_DIR":     func(c *ProjectConfig, v string) { c.BlocksDir = v },
	"UIREG_OUT_DIR":        func(c *ProjectConfig, v string) { c.OutDir = v },
	"UIREG_CACHE_DIR":      func(c *ProjectConfig, v string) { c.CacheDir = v },
	"UIREG_DEMO_PATH":      func(c *ProjectConfig, v string) { c.DemoPath = v },
	"UIREG_LOG_FORMAT":     func(c *ProjectConfig, v string) { c.LogFormat = v },
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	componentNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("component_name", func(fl validator.FieldLevel) bool {
			return componentNamePattern.MatchString(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

func defaultConfig() *ProjectConfig {
	return &ProjectConfig{
		ComponentsDir: "components",
		BlocksDir:     "blocks",
		OutDir:        "registry",
		CacheDir:      filepath.Join(".cache", "uireg"),
		LogFormat:     string(util.FormatText),
	}
}

// loadProjectConfig reads <root>/.uireg/config.yaml over the defaults, then
// applies .env and UIREG_* environment overrides. A missing file is not an
// error.
func loadProjectConfig(root string) (*ProjectConfig, error) {
	// Variables already set in the environment win over .env.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg := defaultConfig()

	data, err := os.ReadFile(filepath.Join(root, configPath))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	}

	for key, set := range envOverrides {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			set(cfg, v)
		}
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", configPath, err)
	}
	return cfg, nil
}

// Fingerprint hashes every setting that changes extracted schemas, so a
// config edit invalidates the cache.
func (c *ProjectConfig) Fingerprint(root string) string {
	relevant := struct {
		Include    []string                      `yaml:"include"`
		Exclude    []string                      `yaml:"exclude"`
		Overrides  map[string]discovery.Override `yaml:"overrides"`
		Primitives string                        `yaml:"primitives"`
	}{
		Include:   c.Include,
		Exclude:   c.Exclude,
		Overrides: c.Overrides,
	}
	if c.PrimitivesFile != "" {
		path := c.PrimitivesFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if data, err := os.ReadFile(path); err == nil {
			relevant.Primitives = util.HashBytes(data)
		}
	}

	data, err := yaml.Marshal(relevant)
	if err != nil {
		return ""
	}
	return util.HashBytes(data)
}
