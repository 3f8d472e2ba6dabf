// Package config holds the settings shared by the binaries. Values come,
// in order of precedence, from command-line flags, DOMINO_* environment
// variables, an optional YAML config file, and the defaults below.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug      = "debug"
	ConfigConfigFile = "config-file"
	ConfigPreset     = "preset"
	ConfigRulesFile  = "rules-file"
	ConfigPlayers    = "players"
	ConfigTeams      = "teams"
	ConfigHandSize   = "hand-size"
	ConfigGames      = "games"
	ConfigThreads    = "threads"
	ConfigOutput     = "output"
	ConfigDB         = "db"
	ConfigSeed       = "seed"
	ConfigCPUProfile = "cpu-profile"
)

var ErrBadSetting = errors.New("bad setting")

type Config struct {
	v *viper.Viper
}

// DefaultConfig returns a configuration with every default filled in. It
// does not look at flags, the environment or any file.
func DefaultConfig() *Config {
	c := &Config{v: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.v.SetDefault(ConfigDebug, false)
	c.v.SetDefault(ConfigPreset, "classic")
	c.v.SetDefault(ConfigRulesFile, "")
	c.v.SetDefault(ConfigPlayers, []string{"greedy", "random", "smart", "first"})
	c.v.SetDefault(ConfigTeams, 2)
	c.v.SetDefault(ConfigHandSize, 0)
	c.v.SetDefault(ConfigGames, 100)
	c.v.SetDefault(ConfigThreads, 4)
	c.v.SetDefault(ConfigOutput, "")
	c.v.SetDefault(ConfigDB, "")
	c.v.SetDefault(ConfigSeed, "")
	c.v.SetDefault(ConfigCPUProfile, "")
}

// Load parses the command-line arguments and reads the environment and the
// config file, if any.
func (c *Config) Load(args []string) error {
	if c.v == nil {
		c.v = viper.New()
	}
	c.setDefaults()

	fs := pflag.NewFlagSet("domino", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "path to a YAML config file")
	fs.String(ConfigPreset, "classic", "the rule preset to play")
	fs.String(ConfigRulesFile, "", "YAML file with extra presets")
	fs.StringSlice(ConfigPlayers, []string{"greedy", "random", "smart", "first"}, "one strategy per player")
	fs.Int(ConfigTeams, 2, "number of teams; players are seated round-robin")
	fs.Int(ConfigHandSize, 0, "override the hand size of the preset")
	fs.Int(ConfigGames, 100, "number of self-play games")
	fs.Int(ConfigThreads, 4, "number of self-play workers")
	fs.String(ConfigOutput, "", "CSV file for the self-play turn log")
	fs.String(ConfigDB, "", "sqlite database for finished self-play games")
	fs.String(ConfigSeed, "", "seed for reproducible self-play")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}

	c.v.SetEnvPrefix("domino")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if f := c.v.GetString(ConfigConfigFile); f != "" {
		c.v.SetConfigFile(f)
		c.v.SetConfigType("yaml")
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", f, err)
		}
	}
	return c.Validate()
}

// Validate checks the values that would otherwise fail much later.
func (c *Config) Validate() error {
	if c.GetInt(ConfigTeams) < 1 {
		return fmt.Errorf("%s must be at least 1: %w", ConfigTeams, ErrBadSetting)
	}
	if len(c.GetStringSlice(ConfigPlayers)) < c.GetInt(ConfigTeams) {
		return fmt.Errorf("need at least one player per team: %w", ErrBadSetting)
	}
	if c.GetInt(ConfigThreads) < 1 {
		return fmt.Errorf("%s must be at least 1: %w", ConfigThreads, ErrBadSetting)
	}
	if c.GetInt(ConfigGames) < 0 || c.GetInt(ConfigHandSize) < 0 {
		return fmt.Errorf("counts cannot be negative: %w", ErrBadSetting)
	}
	return nil
}

func (c *Config) Get(key string) any {
	return c.v.Get(key)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}
