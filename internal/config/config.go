package config

import (
	"elorank/internal/elo"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const DefaultDatabasePath = "./elorank.db"

type Config struct {
	// DatabasePath is the SQLite file holding the ratings.
	DatabasePath string

	// RedisAddress enables the leaderboard mirror when set.
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// BaseRating is the rating of a newcomer, 0 means elo.DefaultBaseRating.
	BaseRating int
	KFactor    KFactorConfig
}

// KFactorConfig is the serializable form of an elo.KFactorPolicy.
// Fixed, even 0, takes precedence over the tiers, if nothing is set the default
// tiered policy applies.
type KFactorConfig struct {
	Fixed   *float64   `json:",omitempty"`
	Tiers   []elo.Tier `json:",omitempty"`
	Default float64    `json:",omitempty"`
}

func (k KFactorConfig) Policy() elo.KFactorPolicy {
	switch {
	case k.Fixed != nil:
		return elo.Fixed(*k.Fixed)
	case len(k.Tiers) > 0 || k.Default != 0:
		return elo.Tiered{Tiers: k.Tiers, Default: k.Default}
	default:
		return elo.DefaultKFactorPolicy()
	}
}

// EloConfig is the rating policy described by the configuration.
func (c *Config) EloConfig() elo.Config {
	ret := elo.DefaultConfig()
	if c.BaseRating != 0 {
		ret.BaseRating = c.BaseRating
	}
	ret.KFactor = c.KFactor.Policy()

	return ret
}

func NewFromUserConfigDir() (*Config, error) {
	c := &Config{}
	if err := c.ReloadFromUserConfigDir(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) expandFromEnv() error {
	strs := []struct {
		src string
		dst *string
	}{
		{"ELORANK_DB", &c.DatabasePath},
		{"ELORANK_REDIS_ADDR", &c.RedisAddress},
		{"ELORANK_REDIS_PASSWORD", &c.RedisPassword},
	}

	for _, v := range strs {
		if str := os.Getenv(v.src); str != "" {
			*v.dst = str
		}
	}

	if str := os.Getenv("ELORANK_BASE_RATING"); str != "" {
		rating, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("invalid ELORANK_BASE_RATING: %w", err)
		}
		c.BaseRating = rating
	}

	if str := os.Getenv("ELORANK_K_FACTOR"); str != "" {
		k, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid ELORANK_K_FACTOR: %w", err)
		}
		c.KFactor = KFactorConfig{Fixed: &k}
	}

	return nil
}

func (c *Config) ReloadFromUserConfigDir() error {
	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return err
	}

	return c.ReloadFromPath(path)
}

// ReloadFromPath replaces c with the contents of the JSON file at path, or
// with an empty config if the file does not exist. The environment is
// applied on top in both cases.
func (c *Config) ReloadFromPath(path string) error {
	log.Printf("debug: reading conf from %s", path)

	*c = Config{}
	if err := c.decodeFile(path); err != nil {
		return err
	}

	if err := c.expandFromEnv(); err != nil {
		return err
	}

	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath
	}

	return nil
}

func (c *Config) decodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(c)
}

func getOrCreateUserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, "elorank")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.json"), nil
}

func (c *Config) Write() error {
	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return err
	}

	return c.WriteToPath(path)
}

func (c *Config) WriteToPath(path string) error {
	log.Printf("debug: writing conf to %s", path)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(c); err != nil {
		if err2 := f.Close(); err2 != nil {
			return fmt.Errorf("unable to close file (%s) after error: %w", err2, err)
		}

		return err
	}

	return f.Close()
}
