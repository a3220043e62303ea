// Package config loads the optional TOML configuration file and merges it
// over builtin defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"bibfzf/src/internal/preamble"
)

// FileName is the default config file, relative to the home directory.
const FileName = ".bibfzf.conf"

// Clipboard modes for the copy actions.
const (
	ClipboardNone    = "none"
	ClipboardSystem  = "system"
	ClipboardCommand = "command"
)

// Actions names the external commands the action menu runs.
type Actions struct {
	OpenPDF  string `mapstructure:"open_pdf"`
	OpenDOI  string `mapstructure:"open_doi"`
	OpenURL  string `mapstructure:"open_url"`
	CopyCite string `mapstructure:"copy_cite"`
	CopyKey  string `mapstructure:"copy_key"`
}

type Config struct {
	Preamble      string   `mapstructure:"preamble"`
	PreambleFiles []string `mapstructure:"preamble_files"`
	TexlivePath   string   `mapstructure:"texlive_path"`
	Clipboard     string   `mapstructure:"clipboard"`
	Actions       Actions  `mapstructure:"actions"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("preamble", preamble.Months)
	v.SetDefault("preamble_files", []string{})
	v.SetDefault("texlive_path", "/usr/local/texlive")
	v.SetDefault("clipboard", "")
	v.SetDefault("actions.open_pdf", "open")
	v.SetDefault("actions.open_doi", "open")
	v.SetDefault("actions.open_url", "open")
	v.SetDefault("actions.copy_cite", "pbcopy")
	v.SetDefault("actions.copy_key", "pbcopy")
}

// DefaultPath returns ~/.bibfzf.conf.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Defaults returns the configuration used when no file is present.
func Defaults() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return c, nil
}

// Load reads path as TOML over the defaults. A missing file is not an
// error: the defaults are returned and found is false.
func Load(fsys afero.Fs, path string) (c *Config, found bool, err error) {
	v := viper.New()
	v.SetFs(fsys)
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if _, err := fsys.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, false, fmt.Errorf("config %s: %w", path, err)
		}
		found = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("config %s: %w", path, err)
	}

	c = &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, false, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, false, fmt.Errorf("config %s: %w", path, err)
	}
	return c, found, nil
}

func (c *Config) validate() error {
	switch c.Clipboard {
	case "", ClipboardNone, ClipboardSystem, ClipboardCommand:
		return nil
	}
	return fmt.Errorf("clipboard: unknown mode %q (want %s, %s or %s)", c.Clipboard, ClipboardNone, ClipboardSystem, ClipboardCommand)
}
