package cli

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/btg/pkg/errors"
)

// configFileName is looked up in configDir when --config is not given.
const configFileName = "config.toml"

// fileConfig mirrors the generate flags in a TOML file. Nil fields are
// absent from the file and leave the flag defaults alone.
//
//	depth = 6
//	min = 1
//	max = 9
//	formats = ["svg", "json"]
type fileConfig struct {
	Output   *string  `toml:"output"`
	Depth    *int     `toml:"depth"`
	Min      *int     `toml:"min"`
	Max      *int     `toml:"max"`
	NoRender *bool    `toml:"no_render"`
	Formats  []string `toml:"formats"`
	Seed     *uint64  `toml:"seed"`
	NoCache  *bool    `toml:"no_cache"`
	View     *bool    `toml:"view"`
}

// loadConfig reads the config file at path. With an empty path the default
// location is tried and a missing file is not an error; nil is returned in
// that case.
func loadConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return nil, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// apply copies file values into o for every flag not set on the command line.
func (cfg *fileConfig) apply(cmd *cobra.Command, o *generateOpts) {
	changed := cmd.Flags().Changed
	if cfg.Output != nil && !changed("output") {
		o.output = *cfg.Output
	}
	if cfg.Depth != nil && !changed("depth") {
		o.depth = *cfg.Depth
	}
	if cfg.Min != nil && !changed("min") {
		o.min = *cfg.Min
	}
	if cfg.Max != nil && !changed("max") {
		o.max = *cfg.Max
	}
	if cfg.NoRender != nil && !changed("no-render") {
		o.noRender = *cfg.NoRender
	}
	if cfg.Formats != nil && !changed("format") {
		o.formats = strings.Join(cfg.Formats, ",")
	}
	if cfg.Seed != nil && !changed("seed") {
		o.seed = *cfg.Seed
	}
	if cfg.NoCache != nil && !changed("no-cache") {
		o.noCache = *cfg.NoCache
	}
	if cfg.View != nil && !changed("view") {
		o.view = *cfg.View
	}
}
