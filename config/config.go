package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pixhide/cryptography"
	"pixhide/stegano/img"
	stutil "pixhide/stegano/util"
	"pixhide/util"
)

const (
	DirName  = ".pixhide"
	FileName = "config.yaml"
)

/*
 * Defaults for hiding and revealing. Every value can be overridden from
 * the command line.
 */
type SteganoConfig struct {
	BitsPerChannel int    `yaml:"bits_per_channel"` // 1..4
	KDF            string `yaml:"kdf"`              // pbkdf2 or argon2id
	Workers        int    `yaml:"workers"`          // 0 means one per CPU
	OutputFormat   string `yaml:"output_format"`    // png or bmp, used when -out has no extension
}

type FullConfig struct {
	Steganography SteganoConfig   `yaml:"steganography"`
	Logger        util.LoggerInfo `yaml:"logger"`
}

func DefaultConfig() *FullConfig {
	return &FullConfig{
		Steganography: SteganoConfig{
			BitsPerChannel: 1,
			KDF:            cryptography.PBKDF2.String(),
			OutputFormat:   img.PNG.String(),
		},
		Logger: util.LoggerInfo{
			IsColored: true,
			Mode:      util.Error | util.Warning,
		},
	}
}

// DefaultPath is ~/.pixhide/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName, FileName), nil
}

func (c *FullConfig) Validate() error {
	s := c.Steganography
	if s.BitsPerChannel < img.MinBitsPerChannel || s.BitsPerChannel > img.MaxBitsPerChannel {
		return fmt.Errorf("%w: bits_per_channel must be in [%d, %d], got %d",
			stutil.ErrConfig, img.MinBitsPerChannel, img.MaxBitsPerChannel, s.BitsPerChannel)
	}
	if _, err := cryptography.ParseKDF(s.KDF); err != nil {
		return fmt.Errorf("%w: %v", stutil.ErrConfig, err)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", stutil.ErrConfig)
	}
	switch strings.ToLower(s.OutputFormat) {
	case "", img.PNG.String(), img.BMP.String():
	default:
		return fmt.Errorf("%w: output_format must be png or bmp, got %q", stutil.ErrConfig, s.OutputFormat)
	}
	if c.Logger.Mode > util.AllLevels {
		return fmt.Errorf("%w: invalid logger mode %d", stutil.ErrConfig, c.Logger.Mode)
	}
	return nil
}

// Embedding turns the defaults into an engine configuration.
func (c *FullConfig) Embedding(password string) (img.EmbeddingConfig, error) {
	kdf, err := cryptography.ParseKDF(c.Steganography.KDF)
	if err != nil {
		return img.EmbeddingConfig{}, fmt.Errorf("%w: %v", stutil.ErrConfig, err)
	}
	cfg := img.EmbeddingConfig{
		BitsPerChannel: c.Steganography.BitsPerChannel,
		Password:       password,
		KDF:            kdf,
		Workers:        c.Steganography.Workers,
	}
	return cfg, cfg.Validate()
}

/*
 * Functions for loading and saving configuration in YAML format.
 */
func LoadConfig(filename string) (*FullConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	conf := DefaultConfig()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", stutil.ErrConfig, filename, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// LoadOrDefault is LoadConfig that falls back to the defaults when the
// file does not exist yet.
func LoadOrDefault(filename string) (*FullConfig, error) {
	conf, err := LoadConfig(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return conf, err
}

func SaveConfig(filename string, c *FullConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}
