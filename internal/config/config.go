// Package config loads the fecchan YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/observe-l/fecchan/fec"
	"github.com/observe-l/fecchan/fecframe"
	"gopkg.in/yaml.v3"
)

// Config is the full fecchan configuration.
type Config struct {
	Codec   Codec   `yaml:"codec"`
	Channel Channel `yaml:"channel"`
	Logging Logging `yaml:"logging"`
	Server  Server  `yaml:"server"`
	Eval    Eval    `yaml:"eval"`
}

// Codec holds encoder defaults.
type Codec struct {
	Method string `yaml:"method"` // rep or lin
	Factor int    `yaml:"factor"`
	Tail   string `yaml:"tail"` // drop or reject
}

// Channel holds the BSC defaults.
type Channel struct {
	FlipProbability float64 `yaml:"flip_probability"`
	Seed            int64   `yaml:"seed"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // optional lfshook sink prefix
}

// Server holds the listener settings of `fecchan serve`.
type Server struct {
	HTTPAddr       string `yaml:"http_addr"`
	GRPCAddr       string `yaml:"grpc_addr"`
	MaxConnections int    `yaml:"max_connections"`
	MaxFrameBytes  int64  `yaml:"max_frame_bytes"`
}

// Eval parameterizes the BER sweep.
type Eval struct {
	Methods       []string  `yaml:"methods"`
	Factors       []int     `yaml:"factors"`
	Probabilities []float64 `yaml:"probabilities"`
	Trials        int       `yaml:"trials"`
	PayloadBytes  int       `yaml:"payload_bytes"`
	Workers       int       `yaml:"workers"`
	Seed          int64     `yaml:"seed"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Codec:   Codec{Method: "lin", Factor: 3, Tail: "drop"},
		Channel: Channel{FlipProbability: 0.01, Seed: 1},
		Logging: Logging{Level: "info", Format: "text"},
		Server: Server{
			HTTPAddr:       "127.0.0.1:8080",
			GRPCAddr:       "127.0.0.1:9090",
			MaxConnections: 64,
			MaxFrameBytes:  16 << 20,
		},
		Eval: Eval{
			Methods:       []string{"rep", "lin"},
			Factors:       []int{3, 4, 5, 7, 9},
			Probabilities: []float64{0.001, 0.005, 0.01, 0.02, 0.05},
			Trials:        20,
			PayloadBytes:  1024,
			Workers:       4,
			Seed:          1,
		},
	}
}

// LoadConfig reads path over DefaultConfig, so omitted keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating the directory if needed.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks value ranges. Method and factor are checked together
// against the built-in codes.
func (c *Config) Validate() error {
	var errs []error
	m, err := fecframe.ParseMethod(c.Codec.Method)
	if err != nil {
		errs = append(errs, err)
	} else if err := checkFactor(m, c.Codec.Factor); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Codec.TailPolicy(); err != nil {
		errs = append(errs, err)
	}
	if p := c.Channel.FlipProbability; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("channel.flip_probability %v out of [0,1]", p))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q", c.Logging.Format))
	}
	if c.Server.MaxConnections < 0 {
		errs = append(errs, errors.New("server.max_connections must not be negative"))
	}
	if c.Server.MaxFrameBytes <= 0 {
		errs = append(errs, errors.New("server.max_frame_bytes must be positive"))
	}
	for _, s := range c.Eval.Methods {
		if _, err := fecframe.ParseMethod(s); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range c.Eval.Probabilities {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("eval.probabilities: %v out of [0,1]", p))
		}
	}
	if c.Eval.Trials <= 0 || c.Eval.Workers <= 0 || c.Eval.PayloadBytes < 0 {
		errs = append(errs, errors.New("eval.trials and eval.workers must be positive, eval.payload_bytes non-negative"))
	}
	return errors.Join(errs...)
}

func checkFactor(m fecframe.Method, factor int) error {
	if m == fecframe.MethodRepetition {
		if !fec.ValidRepetitionFactor(factor) {
			return fec.Errorf(fec.KindUnsupportedFactor, "config", "codec.factor %d for repetition", factor)
		}
		return nil
	}
	if _, err := fec.DefaultCatalog().Code(factor); err != nil {
		return fec.Errorf(fec.KindUnsupportedFactor, "config", "codec.factor %d for linear", factor)
	}
	return nil
}

// MethodValue returns the parsed codec method.
func (c Codec) MethodValue() (fecframe.Method, error) { return fecframe.ParseMethod(c.Method) }

// TailPolicy returns the parsed tail policy.
func (c Codec) TailPolicy() (fecframe.TailPolicy, error) {
	switch c.Tail {
	case "", "drop":
		return fecframe.DropIncompleteTail, nil
	case "reject":
		return fecframe.RejectIncompleteTail, nil
	}
	return 0, fmt.Errorf("codec.tail %q (want drop or reject)", c.Tail)
}
