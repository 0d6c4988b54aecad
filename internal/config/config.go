// Package config loads surf-mt's configuration with the teacher's
// env-first precedence (see Bparsons0904-waugzee/server/config/config.go),
// substituting an ini-file fallback layer for its .env layer.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"surfmt/internal/logging"
)

const (
	orgName = "surfmt"
	appName = "surfmt"

	envPort     = "SURF_PORT"
	envMaxCache = "SURF_MAX_CACHE"
	envMedia    = "SURF_MEDIA"

	defaultPort  = 27440
	defaultCache = 64
)

// Config is the resolved runtime configuration.
type Config struct {
	Port      int
	MaxCache  int
	MediaRoot string
	CacheDir  string
}

// Load resolves configuration with the precedence env > ini file > defaults,
// per spec.md §6.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for _, key := range []string{envPort, envMaxCache, envMedia} {
		_ = v.BindEnv(key)
	}

	if iniPath, err := configFilePath(); err == nil {
		v.SetConfigFile(iniPath)
		v.SetConfigType("ini")
		if err := v.ReadInConfig(); err != nil {
			logging.Debugf("config: no ini file at %s: %v", iniPath, err)
		} else {
			bindIniAliases(v)
		}
	}

	mediaRoot := v.GetString(envMedia)
	if mediaRoot == "" {
		mediaRoot = defaultMusicDir()
	}

	cacheDir, err := cacheDirPath()
	if err != nil {
		cacheDir = filepath.Join(os.TempDir(), orgName, appName)
	}

	cfg := &Config{
		Port:      intOrDefault(v, envPort, defaultPort),
		MaxCache:  intOrDefault(v, envMaxCache, defaultCache),
		MediaRoot: mediaRoot,
		CacheDir:  cacheDir,
	}
	return cfg, nil
}

// bindIniAliases maps the ini sections named in spec.md §6
// ([net] port=, [media] path=, [media] cache_size=) onto the flat env keys
// as defaults, so a set environment variable still takes precedence.
func bindIniAliases(v *viper.Viper) {
	if v.IsSet("net.port") {
		v.SetDefault(envPort, v.Get("net.port"))
	}
	if v.IsSet("media.path") {
		v.SetDefault(envMedia, v.Get("media.path"))
	}
	if v.IsSet("media.cache_size") {
		v.SetDefault(envMaxCache, v.Get("media.cache_size"))
	}
}

func intOrDefault(v *viper.Viper, key string, fallback int) int {
	if !v.IsSet(key) {
		return fallback
	}
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		logging.Warnf("config: %s is not an integer, using default %d", key, fallback)
		return fallback
	}
	return n
}

// configFilePath returns <config-home>/<org>/<app>/config.ini.
func configFilePath() (string, error) {
	home, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, orgName, appName, "config.ini"), nil
}

// cacheDirPath returns <cache-home>/<org>/<app>/.
func cacheDirPath() (string, error) {
	home, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, orgName, appName), nil
}

// defaultMusicDir approximates the platform's conventional Music folder.
func defaultMusicDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Music")
}

// DBPath is the catalog database file, excluded from scanning per spec.md §6.
func (c *Config) DBPath() string {
	return filepath.Join(c.MediaRoot, appName+".db")
}
