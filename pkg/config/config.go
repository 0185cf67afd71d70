// Package config implements the layered configuration build used by
// beetle nodes. Typed configuration values flatten themselves into sparse
// key/value maps, a builder folds any number of such layers together with
// later-wins semantics, and the merged result decodes back into a typed
// struct in a single step.
//
// The canonical layer order for a node is defaults, then an optional
// config file, then environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Source is one layer of configuration values.
type Source interface {
	// Collect flattens the source into a key/value map. Nested
	// configuration blocks appear as nested maps. Collect is pure: it
	// must return equal maps for an unchanged receiver.
	Collect() (map[string]any, error)

	// CloneSource returns an independent deep copy of the source. The
	// builder clones every registered source so its lifetime does not
	// depend on the caller's value.
	CloneSource() Source
}

type layer interface {
	apply(v *viper.Viper) error
}

type sourceLayer struct {
	src Source
}

func (l sourceLayer) apply(v *viper.Viper) error {
	m, err := l.src.Collect()
	if err != nil {
		return fmt.Errorf("collect source: %w", err)
	}
	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("merge source: %w", err)
	}
	return nil
}

type fileLayer struct {
	path string
}

func (l fileLayer) apply(v *viper.Viper) error {
	v.SetConfigFile(l.path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("merge config file %s: %w", l.path, err)
	}
	return nil
}

type envLayer struct {
	prefix string
}

func (l envLayer) apply(v *viper.Viper) error {
	v.SetEnvPrefix(l.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// Builder accumulates configuration layers and merges them. Layers merge
// in registration order; on conflicting keys the later layer wins.
// Environment variables always sit above file and source layers, matching
// the canonical defaults < file < env order.
type Builder struct {
	layers []layer
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddSource registers a typed source layer. The source is cloned; later
// mutation of the caller's value does not affect the build.
func (b *Builder) AddSource(src Source) *Builder {
	b.layers = append(b.layers, sourceLayer{src: src.CloneSource()})
	return b
}

// AddFile registers a config file layer. The file must exist and parse;
// its format follows the extension (TOML for the well-known node files).
func (b *Builder) AddFile(path string) *Builder {
	b.layers = append(b.layers, fileLayer{path: path})
	return b
}

// AddEnv registers an environment layer. Variables named PREFIX_KEY map
// onto configuration keys, with underscores standing in for key
// separators (for example BEETLE_STORE_PATH sets "path").
func (b *Builder) AddEnv(prefix string) *Builder {
	b.layers = append(b.layers, envLayer{prefix: prefix})
	return b
}

// Build merges all registered layers.
func (b *Builder) Build() (*Merged, error) {
	v := viper.New()
	for _, l := range b.layers {
		if err := l.apply(v); err != nil {
			return nil, err
		}
	}
	return &Merged{v: v}, nil
}

// Merged is the result of a build: a flat view over the merged layers
// that can materialize back into typed configuration.
type Merged struct {
	v *viper.Viper
}

// Get returns the merged value at a dotted key, or nil.
func (m *Merged) Get(key string) any {
	return m.v.Get(key)
}

// Decode materializes the merged configuration into a typed struct.
// Optional hooks convert scalar representations back into richer types
// (for example rpc.AddrDecodeHook).
func (m *Merged) Decode(out any, hooks ...mapstructure.DecodeHookFunc) error {
	var opts []viper.DecoderConfigOption
	if len(hooks) > 0 {
		opts = append(opts, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(hooks...)))
	}
	if err := m.v.Unmarshal(out, opts...); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}
