// Package configloader builds the effective quickfix configuration from
// config files, .env files, QUICKFIX_* variables and command-line flags,
// and checks it against the registered rules.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	WorkingDir   string // start of the project config search; the process working directory when empty
	ExplicitPath string // --config

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool // skip QUICKFIX_* variables and the .env file

	// Registry resolves rule names, aliases and tags in rule keys and
	// selectors. Without it they are kept as written and not checked.
	Registry *quickfix.Registry

	// CLIConfig holds the flag values. It is layered last.
	CLIConfig *config.Config
}

// LoadResult is the effective configuration and how it was assembled.
type LoadResult struct {
	Config     *config.Config
	Paths      *ConfigPaths
	LoadedFrom []string // files read, lowest precedence first
	Warnings   []string
}

// Load layers, from lowest to highest precedence: the defaults, the
// system, user, project and explicit config files, the environment (the
// process environment before the .env file), and the command line.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths, Config: config.NewConfig()}

	files := []struct {
		layer string
		path  string
		skip  bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}
	for _, f := range files {
		if f.skip || f.path == "" {
			continue
		}
		layer, err := loadConfigFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", f.layer, err)
		}
		result.Config = result.Config.Overlay(layer)
		result.LoadedFrom = append(result.LoadedFrom, f.path)
	}

	if !opts.IgnoreEnv {
		if err := result.applyEnv(); err != nil {
			return nil, err
		}
	}

	result.Config = result.Config.Overlay(opts.CLIConfig)

	if opts.Registry != nil {
		normalizeRuleKeys(opts.Registry, result)
		normalizeRuleSelectors(opts.Registry, result)
	}

	validation := Validate(result.Config, opts.Registry)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	return result, nil
}

func (r *LoadResult) applyEnv() error {
	lookup := LookupFunc(os.LookupEnv)
	if r.Paths.DotEnv != "" {
		var err error
		if lookup, err = DotEnvLookup(r.Paths.DotEnv); err != nil {
			return fmt.Errorf("load environment file: %w", err)
		}
		r.LoadedFrom = append(r.LoadedFrom, r.Paths.DotEnv)
	}
	if err := loadFromLookup(r.Config, lookup); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	return nil
}

func loadConfigFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return config.Parse(data)
}
