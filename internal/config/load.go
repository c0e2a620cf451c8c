package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/greetgo/internal/ctxlog"
	"github.com/vk/greetgo/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

const (
	// EnvConfig names the environment variable holding an explicit config
	// file path. When set, the file must exist and parse.
	EnvConfig = "GREETGO_CONFIG"
	// DefaultFileName is probed in the working directory and under the
	// user config directory when EnvConfig is unset.
	DefaultFileName = "greetgo.hcl"
)

// fileRoot mirrors the top-level structure of a config file. All blocks
// and attributes are optional; anything omitted keeps its default.
type fileRoot struct {
	Logging *loggingBlock `hcl:"logging,block"`
}

type loggingBlock struct {
	Dir           *string `hcl:"dir,optional"`
	RetentionDays *int    `hcl:"retention_days,optional"`
	Format        *string `hcl:"format,optional"`
}

// Load resolves the configuration for this invocation. An explicit path in
// $GREETGO_CONFIG wins; otherwise the default file name is probed in the
// working directory and then under ~/.config/greetgo. When no file is
// found the compiled defaults are used.
func Load(ctx context.Context) (*Config, error) {
	logger := ctxlog.FromContext(ctx)

	if path := os.Getenv(EnvConfig); path != "" {
		logger.Debug("Loading config file from environment.", "path", path)
		return LoadFile(path)
	}

	if path, ok := fsutil.FirstExisting(discoveryCandidates()...); ok {
		logger.Debug("Loading discovered config file.", "path", path)
		return LoadFile(path)
	}

	logger.Debug("No config file found, using defaults.")
	return New(*Default())
}

// discoveryCandidates lists the paths probed when no explicit config path
// was given, in priority order.
func discoveryCandidates() []string {
	candidates := []string{DefaultFileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "greetgo", DefaultFileName))
	}
	return candidates
}

// LoadFile parses and decodes a single HCL config file, layering it over
// the defaults and validating the result.
func LoadFile(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %s", path, diags.Error())
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %s", path, diags.Error())
	}

	cfg := *Default()
	if root.Logging != nil {
		if root.Logging.Dir != nil {
			cfg.Logging.Dir = *root.Logging.Dir
		}
		if root.Logging.RetentionDays != nil {
			cfg.Logging.RetentionDays = *root.Logging.RetentionDays
		}
		if root.Logging.Format != nil {
			cfg.Logging.Format = *root.Logging.Format
		}
	}
	return New(cfg)
}

// evalContext exposes the process environment to config expressions as the
// env object, for example:
//
//	logging {
//	  dir = "${env.HOME}/.local/state/greetgo"
//	}
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
