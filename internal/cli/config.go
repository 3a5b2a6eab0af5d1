package cli

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/errors"
)

// Config keys. Each is also a flag name and, upper-cased with a BPM_ prefix
// and dashes turned into underscores, an environment variable.
const (
	keyRepo        = "repo"
	keyExecDir     = "exec-dir"
	keyAddr        = "addr"
	keyAPIURL      = "api-url"
	keyCache       = "cache"
	keyCacheTTL    = "cache-ttl"
	keyRedisAddr   = "redis-addr"
	keyGitHubToken = "github-token"
	keyCatalog     = "catalog"
	keyPretty      = "pretty"
)

// Config is the merged configuration of defaults, config file, environment
// and flags, in increasing precedence.
type Config struct {
	Repo        string        `mapstructure:"repo"`
	ExecDir     string        `mapstructure:"exec-dir"`
	Addr        string        `mapstructure:"addr"`
	APIURL      string        `mapstructure:"api-url"`
	Cache       string        `mapstructure:"cache"`
	CacheTTL    time.Duration `mapstructure:"cache-ttl"`
	RedisAddr   string        `mapstructure:"redis-addr"`
	GitHubToken string        `mapstructure:"github-token"`
	Catalog     string        `mapstructure:"catalog"`
	Pretty      bool          `mapstructure:"pretty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyRepo, bpl.DefaultRepo)
	v.SetDefault(keyExecDir, bpl.DefaultExecDir)
	v.SetDefault(keyAddr, ":8080")
	v.SetDefault(keyAPIURL, "http://localhost:8080")
	v.SetDefault(keyCache, cacheFile)
	v.SetDefault(keyCacheTTL, 24*time.Hour)
	v.SetDefault(keyRedisAddr, "localhost:6379")
	v.SetDefault(keyGitHubToken, "")
	v.SetDefault(keyCatalog, "")
	v.SetDefault(keyPretty, false)

	v.SetEnvPrefix("BPM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// loadConfig reads path, or config.toml from the config directory when path
// is empty. A missing default config file is not an error.
func (c *CLI) loadConfig(path string) error {
	if path != "" {
		c.v.SetConfigFile(path)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		c.v.SetConfigName("config")
		c.v.SetConfigType("toml")
		c.v.AddConfigPath(dir)
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && stderrors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
	}
	c.Logger.Debug("loaded config", "file", c.v.ConfigFileUsed())
	return nil
}

// config returns the current configuration.
func (c *CLI) config() Config {
	var cfg Config
	if err := c.v.Unmarshal(&cfg); err != nil {
		c.Logger.Warn("invalid configuration, using defaults", "err", err)
	}
	return cfg
}

// bindFlags binds every known config key that cmd defines as a flag.
func (c *CLI) bindFlags(cmd *cobra.Command) {
	bind := func(f *pflag.Flag) {
		switch f.Name {
		case keyRepo, keyExecDir, keyAddr, keyAPIURL, keyCache, keyCacheTTL,
			keyRedisAddr, keyGitHubToken, keyCatalog, keyPretty:
			_ = c.v.BindPFlag(f.Name, f)
		}
	}
	cmd.PersistentFlags().VisitAll(bind)
	cmd.Flags().VisitAll(bind)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}
