package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetString(ConfigPreset), "classic")
	is.Equal(c.GetInt(ConfigTeams), 2)
	is.Equal(c.GetStringSlice(ConfigPlayers), []string{"greedy", "random", "smart", "first"})
	is.True(!c.GetBool(ConfigDebug))
	is.NoErr(c.Validate())
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--preset", "longana", "--players", "smart,smart,random", "--teams", "3", "--debug"})
	is.NoErr(err)
	is.Equal(c.GetString(ConfigPreset), "longana")
	is.Equal(c.GetStringSlice(ConfigPlayers), []string{"smart", "smart", "random"})
	is.Equal(c.GetInt(ConfigTeams), 3)
	is.True(c.GetBool(ConfigDebug))
	is.Equal(c.GetInt(ConfigGames), 100)
	_, ok := c.AllSettings()[ConfigSeed]
	is.True(ok)
}

func TestLoadEnvAndFile(t *testing.T) {
	is := is.New(t)
	t.Setenv("DOMINO_GAMES", "7")
	dir := t.TempDir()
	f := filepath.Join(dir, "domino.yaml")
	is.NoErr(os.WriteFile(f, []byte("threads: 2\npreset: parity\n"), 0o644))

	c := &Config{}
	is.NoErr(c.Load([]string{"--config-file", f, "--preset", "coprime"}))
	is.Equal(c.GetInt(ConfigGames), 7)
	is.Equal(c.GetInt(ConfigThreads), 2)
	is.Equal(c.GetString(ConfigPreset), "coprime") // flags win over the file
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--teams", "3", "--players", "greedy,random"})
	is.True(errors.Is(err, ErrBadSetting))

	c = &Config{}
	err = c.Load([]string{"--threads", "0"})
	is.True(errors.Is(err, ErrBadSetting))

	c = &Config{}
	is.True(c.Load([]string{"--no-such-flag"}) != nil)
}
