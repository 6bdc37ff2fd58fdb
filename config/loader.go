package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kbukum/speakmate/logger"
)

// FileSystem abstracts the file lookups the loader performs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem is the FileSystem backed by the real disk.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// LoadEnv loads a .env file without overriding variables already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Files are the resolved config and env file paths; empty means none.
type Files struct {
	ConfigFile string
	EnvFile    string
}

// Resolver locates config.yml and .env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// Resolve returns explicit paths when given, otherwise the first match in
// the standard search locations.
func (r *Resolver) Resolve(serviceName string, explicit Files) Files {
	out := explicit
	if out.ConfigFile == "" {
		out.ConfigFile = r.first(candidatePaths(serviceName, "config.yml"))
	}
	if out.EnvFile == "" {
		out.EnvFile = r.first(append(
			candidatePaths(serviceName, ".env."+serviceName),
			candidatePaths(serviceName, ".env")...,
		))
	}
	return out
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// candidatePaths lists cmd/<service>/, config/ and the working directory
// plus up to two parents, in that order.
func candidatePaths(serviceName, file string) []string {
	dirs := []string{"cmd/" + serviceName, "config", ""}
	if i := strings.LastIndex(serviceName, "-"); i != -1 {
		dirs = append([]string{dirs[0], "cmd/" + serviceName[i+1:]}, dirs[1:]...)
	}
	var out []string
	for _, d := range dirs {
		for _, up := range []string{"./", "../", "../../"} {
			if d == "" {
				out = append(out, up+file)
				continue
			}
			out = append(out, up+d+"/"+file)
		}
	}
	return out
}

type loaderConfig struct {
	fs       FileSystem
	files    Files
	defaults map[string]any
	flags    *pflag.FlagSet
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*loaderConfig)

// WithFileSystem replaces the disk used for file discovery.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *loaderConfig) { lc.fs = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.files.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.files.EnvFile = path }
}

// WithDefaults registers default values keyed by dotted path.
func WithDefaults(defaults map[string]any) LoaderOption {
	return func(lc *loaderConfig) { lc.defaults = defaults }
}

// WithFlags binds a flag set whose names are config keys. Flag defaults sit
// below every other source and flags the user set explicitly override
// everything. The set may be merged into the one that was parsed.
func WithFlags(fs *pflag.FlagSet) LoaderOption {
	return func(lc *loaderConfig) { lc.flags = fs }
}

// LoadConfig resolves configuration for serviceName and unmarshals it into cfg.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := loaderConfig{fs: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	resolver := &Resolver{FileSystem: lc.fs}
	files := resolver.Resolve(serviceName, lc.files)
	log := logger.WithComponent("config")

	v := viper.New()
	for k, val := range lc.defaults {
		v.SetDefault(k, val)
	}
	if lc.flags != nil {
		if err := v.BindPFlags(lc.flags); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
	}

	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("Loaded config file", map[string]interface{}{"path": files.ConfigFile})
	}

	if files.EnvFile != "" {
		if err := lc.fs.LoadEnv(files.EnvFile); err != nil {
			log.Warn("Failed to load env file", map[string]interface{}{"path": files.EnvFile, "error": err.Error()})
		}
	}
	bindEnviron(v, os.Environ())

	if lc.flags != nil {
		lc.flags.VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				v.Set(f.Name, f.Value.String())
			}
		})
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config for %s: %w", serviceName, err)
	}
	return nil
}

// bindEnviron sets every KEY=value pair under each nested key it could
// stand for.
func bindEnviron(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants expands an environment variable name into the dotted keys
// it may address:
//
//	OPENAI_API_KEY -> openai_api_key, openai.api.key, openai.api_key, openai.api.key
//
// Duplicates are removed while preserving order.
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]struct{}, len(variants))
	out := variants[:0]
	for _, s := range variants {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
