// Package config resolves and validates the batch parameters before a run is
// started. Values come from flags bound into viper, OPTIBATCH_* environment
// variables, and defaults, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"optibatch/internal/optimizer"
)

// Defaults matching the optimizer's conventional setup.
const (
	DefaultCommand   = "optipng"
	DefaultTimeoutMS = 60_000
	DefaultProcess   = "yes"
)

// Config holds the resolved parameters for one batch run. It is read once at
// startup and passed by value through the pipeline.
type Config struct {
	SourceDir string
	DestDir   string
	Mode      optimizer.Mode
	Command   string
	Timeout   time.Duration // 0 disables the per-invocation timeout
	Includes  []string
	Excludes  []string
	Jobs      int
}

// SetDefaults registers the default parameter values with viper. Call once
// before binding flags.
func SetDefaults() {
	viper.SetDefault("command", DefaultCommand)
	viper.SetDefault("timeout", DefaultTimeoutMS)
	viper.SetDefault("process", DefaultProcess)
	viper.SetDefault("jobs", 1)
	viper.SetEnvPrefix("OPTIBATCH")
	viper.AutomaticEnv()
}

// Load resolves the configuration for a run rooted at sourceDir and
// validates it. Any error returned here is a configuration error: the batch
// must abort before processing a single file.
func Load(sourceDir string) (Config, error) {
	cfg := Config{
		SourceDir: sourceDir,
		DestDir:   viper.GetString("to"),
		Command:   viper.GetString("command"),
		Includes:  viper.GetStringSlice("include"),
		Excludes:  viper.GetStringSlice("exclude"),
		Jobs:      viper.GetInt("jobs"),
	}

	// Destination defaults to the source directory.
	if cfg.DestDir == "" {
		cfg.DestDir = cfg.SourceDir
	}

	mode, err := optimizer.ParseMode(viper.GetString("process"))
	if err != nil {
		return Config{}, err
	}
	cfg.Mode = mode

	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}

	// 0 or negative disables the timeout entirely.
	if ms := viper.GetInt64("timeout"); ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}

	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}

	if err := checkDir("source directory", cfg.SourceDir, true, false); err != nil {
		return Config{}, err
	}
	if err := checkDir("destination directory", cfg.DestDir, false, true); err != nil {
		return Config{}, err
	}

	for _, pattern := range append(append([]string{}, cfg.Includes...), cfg.Excludes...) {
		if !doublestar.ValidatePattern(pattern) {
			return Config{}, fmt.Errorf("invalid file pattern %q", pattern)
		}
	}

	return cfg, nil
}

// checkDir verifies that path is an existing directory with the required
// access. Readability is checked by opening the directory; writability by
// creating and removing a probe file.
func checkDir(description, path string, mustBeReadable, mustBeWritable bool) error {
	if path == "" {
		return fmt.Errorf("%s is not set", description)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s (%q) does not exist", description, path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s (%q) is not a directory", description, path)
	}
	if mustBeReadable {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("%s (%q) is not readable", description, path)
		}
		_ = f.Close()
	}
	if mustBeWritable {
		probe, err := os.CreateTemp(path, ".optibatch-probe-*")
		if err != nil {
			return fmt.Errorf("%s (%q) is not writable", description, path)
		}
		name := probe.Name()
		_ = probe.Close()
		_ = os.Remove(name)
	}
	return nil
}
