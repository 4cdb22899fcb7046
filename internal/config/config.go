package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/persona-diversity/internal/eval"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Environment overrides.
const (
	EnvDBPath    = "PERSONAS_DB"
	EnvEmbedAddr = "PERSONAS_EMBED_ADDR"
	EnvAPIKey    = "OPENAI_API_KEY"
	EnvLogLevel  = "PERSONAS_LOG_LEVEL"
)

// #region types

// Config is the CLI configuration file.
type Config struct {
	Log        LogConfig       `yaml:"log"`
	Sample     SampleConfig    `yaml:"sample"`
	Eval       EvalConfig      `yaml:"eval"`
	Embedding  EmbeddingConfig `yaml:"embedding"`
	Store      StoreConfig     `yaml:"store"`
	Acceptance eval.Acceptance `yaml:"acceptance"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type SampleConfig struct {
	Count    int    `yaml:"count" validate:"gte=0"`
	Offset   int    `yaml:"offset" validate:"gte=0"`
	Language string `yaml:"language"`
	AxesFile string `yaml:"axes_file"`
}

// EvalConfig mirrors eval.Config. Workers 0 means one per CPU.
type EvalConfig struct {
	CoverageTests    int     `yaml:"coverage_tests" validate:"gte=1"`
	HullTests        int     `yaml:"hull_tests" validate:"gte=1"`
	DispersionTests  int     `yaml:"dispersion_tests" validate:"gte=1"`
	KLBins           int     `yaml:"kl_bins" validate:"gte=1"`
	ReferenceEpsilon float64 `yaml:"reference_epsilon" validate:"gt=0"`
	Epsilon          float64 `yaml:"epsilon" validate:"gte=0"`
	HullMaxIter      int     `yaml:"hull_max_iter" validate:"gte=1"`
	HullTolerance    float64 `yaml:"hull_tolerance" validate:"gt=0"`
	Seed             uint64  `yaml:"seed"`
	Workers          int     `yaml:"workers" validate:"gte=0"`
}

type EmbeddingConfig struct {
	Mode     string `yaml:"mode" validate:"oneof=coordinate api"`
	Provider string `yaml:"provider" validate:"oneof=grpc openai"`
	Addr     string `yaml:"addr" validate:"required_if=Mode api Provider grpc"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url" validate:"omitempty,url"`
	APIKey   string `yaml:"-" validate:"required_if=Mode api Provider openai"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

// #endregion types

// #region defaults

// Default returns the built-in configuration.
func Default() Config {
	ec := eval.DefaultConfig()
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Sample: SampleConfig{Count: 20, Language: "en"},
		Eval: EvalConfig{
			CoverageTests:    ec.CoverageTests,
			HullTests:        ec.HullTests,
			DispersionTests:  ec.DispersionTests,
			KLBins:           ec.KLBins,
			ReferenceEpsilon: ec.ReferenceEpsilon,
			HullMaxIter:      ec.HullMaxIter,
			HullTolerance:    ec.HullTolerance,
			Seed:             ec.Seed,
		},
		Embedding:  EmbeddingConfig{Mode: "coordinate", Provider: "grpc"},
		Store:      StoreConfig{Path: "personas.db"},
		Acceptance: eval.DefaultAcceptance(),
	}
}

// EvalConfig converts to the harness configuration.
func (c Config) EvalConfig() eval.Config {
	workers := c.Eval.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return eval.Config{
		CoverageTests:    c.Eval.CoverageTests,
		HullTests:        c.Eval.HullTests,
		DispersionTests:  c.Eval.DispersionTests,
		KLBins:           c.Eval.KLBins,
		Epsilon:          c.Eval.Epsilon,
		ReferenceEpsilon: c.Eval.ReferenceEpsilon,
		HullMaxIter:      c.Eval.HullMaxIter,
		HullTolerance:    c.Eval.HullTolerance,
		Seed:             c.Eval.Seed,
		Workers:          workers,
	}
}

// #endregion defaults

// #region load

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Store.Path = envOr(EnvDBPath, c.Store.Path)
	c.Embedding.Addr = envOr(EnvEmbedAddr, c.Embedding.Addr)
	c.Embedding.APIKey = envOr(EnvAPIKey, c.Embedding.APIKey)
	c.Log.Level = envOr(EnvLogLevel, c.Log.Level)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load

// #region validate

var configValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// Validate checks every field constraint and reports all failures.
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		field := fe.Namespace()
		if j := strings.IndexByte(field, '.'); j >= 0 {
			field = field[j+1:]
		}
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s: failed %s", field, fe.Tag())
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// #endregion validate
