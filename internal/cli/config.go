package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relayout/pkg/cache"
	relerrors "github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/pipeline"
	"github.com/matzehuels/relayout/pkg/store"
)

// Cache backends.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
)

// Config is the contents of config.toml.
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "sqlite"
//	dsn = "/var/lib/relayout/layouts.db"
type Config struct {
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Measure MeasureConfig `toml:"measure"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend string      `toml:"backend"` // file (default), redis, none
	Dir     string      `toml:"dir"`     // file cache directory
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

func (r RedisConfig) redisConfig() cache.RedisConfig {
	return cache.RedisConfig{Addr: r.Addr, Password: r.Password, DB: r.DB, Prefix: r.Prefix}
}

// ServerConfig configures "relayout serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects where the server keeps documents.
type StoreConfig struct {
	Backend string `toml:"backend"` // memory (default), sqlite, mongo
	DSN     string `toml:"dsn"`
}

// MeasureConfig sets label measurement cell sizes.
type MeasureConfig struct {
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend: cacheFile,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
		},
		Server: ServerConfig{Addr: ":8080"},
		Store:  StoreConfig{Backend: store.BackendMemory},
		Measure: MeasureConfig{
			CellWidth:  pipeline.DefaultCellWidth,
			CellHeight: pipeline.DefaultCellHeight,
		},
	}
}

// LoadConfig reads path over the defaults. An empty path means the XDG
// default location, which may be absent; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return cfg, relerrors.Wrap(relerrors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks backend names.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case cacheFile, cacheRedis, cacheNone:
	default:
		return relerrors.New(relerrors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendSQLite, store.BackendMongo:
	default:
		return relerrors.New(relerrors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend != store.BackendMemory && c.Store.DSN == "" {
		return relerrors.New(relerrors.ErrCodeInvalidInput, "store backend %q needs a dsn", c.Store.Backend)
	}
	return nil
}

// writeDefaultConfig writes the default configuration to path.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(DefaultConfig())
}

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// The file may not exist yet, or may be the broken one being replaced.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return relerrors.New(relerrors.ErrCodeInvalidInput, "%s exists (use --force to overwrite)", path)
			}
			if err := writeDefaultConfig(path); err != nil {
				return err
			}
			printSuccess(c.out, "Wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}

func (c *CLI) resolvedConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
