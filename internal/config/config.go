// Package config loads zfake's front-end defaults from a TOML file.
// The generator and validator packages never read configuration themselves;
// the CLI and TUI translate a Config into their options.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/containerd/errdefs"
	"github.com/zarlcorp/zfake/internal/identity"
	"github.com/zarlcorp/zfake/internal/validate"
)

// Config holds every tunable default.
type Config struct {
	LogLevel  string    `toml:"log_level"`
	Generator Generator `toml:"generator"`
	Password  Password  `toml:"password"`
	Validator Validator `toml:"validator"`

	// Source is the file Load read, empty when only defaults apply.
	Source string `toml:"-"`
}

// Generator holds name, username and email generation defaults.
type Generator struct {
	Domains     []string `toml:"domains"`
	UsernameMin int      `toml:"username_min"`
	UsernameMax int      `toml:"username_max"`
}

// Password holds password generation defaults.
type Password struct {
	Length       int    `toml:"length"`
	Lower        bool   `toml:"lower"`
	Upper        bool   `toml:"upper"`
	Digits       bool   `toml:"digits"`
	Special      bool   `toml:"special"`
	MinLower     int    `toml:"min_lower"`
	MinUpper     int    `toml:"min_upper"`
	MinDigits    int    `toml:"min_digits"`
	MinSpecial   int    `toml:"min_special"`
	SpecialChars string `toml:"special_chars"`
}

// Validator holds the rules applied by the check commands and the TUI form.
type Validator struct {
	UsernameMin    int    `toml:"username_min"`
	UsernameMax    int    `toml:"username_max"`
	PasswordMin    int    `toml:"password_min"`
	RequireLower   bool   `toml:"require_lower"`
	RequireUpper   bool   `toml:"require_upper"`
	RequireDigits  bool   `toml:"require_digits"`
	RequireSpecial bool   `toml:"require_special"`
	SpecialChars   string `toml:"special_chars"`
}

// Default returns the built-in defaults.
func Default() Config {
	pw := identity.DefaultPasswordOptions()
	rules := validate.DefaultPasswordRules()
	return Config{
		LogLevel: "info",
		Generator: Generator{
			Domains:     identity.DefaultDomains(),
			UsernameMin: identity.DefaultUsernameMinLen,
			UsernameMax: identity.DefaultUsernameMaxLen,
		},
		Password: Password{
			Length:       pw.Length,
			Lower:        pw.Lower,
			Upper:        pw.Upper,
			Digits:       pw.Digits,
			Special:      pw.Special,
			SpecialChars: pw.SpecialChars,
		},
		Validator: Validator{
			UsernameMin:    validate.DefaultUsernameMinLen,
			UsernameMax:    validate.DefaultUsernameMaxLen,
			PasswordMin:    rules.MinLen,
			RequireLower:   rules.RequireLower,
			RequireUpper:   rules.RequireUpper,
			RequireDigits:  rules.RequireDigits,
			RequireSpecial: rules.RequireSpecial,
			SpecialChars:   rules.SpecialChars,
		},
	}
}

// Path returns the default config file location.
func Path() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "zfake", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zfake.toml"
	}
	return filepath.Join(home, ".config", "zfake", "config.toml")
}

// Load reads path over the defaults. An empty path means the default
// location, where a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = Path()
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("unknown config keys", "path", path, "keys", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg.Source = path
	return cfg, nil
}

// Validate rejects values the generator or validator would refuse.
func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	for _, d := range c.Generator.Domains {
		if err := identity.ValidateDomain(d); err != nil {
			return fmt.Errorf("generator.domains: %w", err)
		}
	}
	if err := checkBounds("generator", c.Generator.UsernameMin, c.Generator.UsernameMax); err != nil {
		return err
	}
	if err := c.PasswordOptions().Validate(); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	if err := checkBounds("validator", c.Validator.UsernameMin, c.Validator.UsernameMax); err != nil {
		return err
	}
	if c.Validator.PasswordMin < 1 {
		return fmt.Errorf("%w: validator.password_min must be positive, got %d", errdefs.ErrInvalidArgument, c.Validator.PasswordMin)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", errdefs.ErrInvalidArgument, c.LogLevel)
	}
	return l, nil
}

// PasswordOptions converts the password section for the generator.
func (c Config) PasswordOptions() identity.PasswordOptions {
	p := c.Password
	return identity.PasswordOptions{
		Length:       p.Length,
		Lower:        p.Lower,
		Upper:        p.Upper,
		Digits:       p.Digits,
		Special:      p.Special,
		MinLower:     p.MinLower,
		MinUpper:     p.MinUpper,
		MinDigits:    p.MinDigits,
		MinSpecial:   p.MinSpecial,
		SpecialChars: p.SpecialChars,
	}
}

// PersonaOptions combines the generator and password sections. Each enabled
// class gets at least one character so personas pass the default rules.
func (c Config) PersonaOptions() identity.PersonaOptions {
	pw := c.PasswordOptions()
	if pw.Lower {
		pw.MinLower = max(pw.MinLower, 1)
	}
	if pw.Upper {
		pw.MinUpper = max(pw.MinUpper, 1)
	}
	if pw.Digits {
		pw.MinDigits = max(pw.MinDigits, 1)
	}
	if pw.Special && pw.SpecialChars != "" {
		pw.MinSpecial = max(pw.MinSpecial, 1)
	}
	return identity.PersonaOptions{
		UsernameMin: c.Generator.UsernameMin,
		UsernameMax: c.Generator.UsernameMax,
		Password:    pw,
	}
}

// PasswordRules converts the validator section.
func (c Config) PasswordRules() validate.PasswordRules {
	v := c.Validator
	return validate.PasswordRules{
		MinLen:         v.PasswordMin,
		RequireLower:   v.RequireLower,
		RequireUpper:   v.RequireUpper,
		RequireDigits:  v.RequireDigits,
		RequireSpecial: v.RequireSpecial,
		SpecialChars:   v.SpecialChars,
	}
}

// NewGenerator builds a generator using the configured domain pool.
func (c Config) NewGenerator() *identity.Generator {
	return identity.New(identity.WithDomains(c.Generator.Domains...))
}

func checkBounds(section string, minLen, maxLen int) error {
	if minLen < 1 {
		return fmt.Errorf("%w: %s.username_min must be at least 1, got %d", errdefs.ErrInvalidArgument, section, minLen)
	}
	if maxLen < minLen {
		return fmt.Errorf("%w: %s.username_max %d below username_min %d", errdefs.ErrInvalidArgument, section, maxLen, minLen)
	}
	return nil
}
