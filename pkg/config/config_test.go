package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// mapSource is a test Source backed by a literal map.
type mapSource struct {
	m map[string]any
}

func (s mapSource) Collect() (map[string]any, error) {
	out := make(map[string]any, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out, nil
}

func (s mapSource) CloneSource() Source {
	clone, _ := s.Collect()
	return mapSource{m: clone}
}

func TestBuildSingleSource(t *testing.T) {
	merged, err := NewBuilder().
		AddSource(mapSource{m: map[string]any{"path": "/a", "nested": map[string]any{"k": "v"}}}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := merged.Get("path"); got != "/a" {
		t.Errorf("path should be /a, got: %v", got)
	}
	if got := merged.Get("nested.k"); got != "v" {
		t.Errorf("nested.k should be v, got: %v", got)
	}
}

func TestLaterSourceWins(t *testing.T) {
	merged, err := NewBuilder().
		AddSource(mapSource{m: map[string]any{"path": "/defaults", "keep": "kept"}}).
		AddSource(mapSource{m: map[string]any{"path": "/override"}}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := merged.Get("path"); got != "/override" {
		t.Errorf("later layer should win, got: %v", got)
	}
	if got := merged.Get("keep"); got != "kept" {
		t.Errorf("untouched keys should survive the merge, got: %v", got)
	}
}

func TestFileLayer(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.config.toml")
	if err := os.WriteFile(file, []byte(`path = "/from/file"`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	merged, err := NewBuilder().
		AddSource(mapSource{m: map[string]any{"path": "/defaults"}}).
		AddFile(file).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := merged.Get("path"); got != "/from/file" {
		t.Errorf("file layer should override the source layer, got: %v", got)
	}
}

func TestFileLayerMissing(t *testing.T) {
	_, err := NewBuilder().
		AddFile(filepath.Join(t.TempDir(), "does-not-exist.toml")).
		Build()
	if err == nil {
		t.Error("a missing config file should fail the build")
	}
}

func TestEnvLayer(t *testing.T) {
	t.Setenv("BEETLE_TEST_PATH", "/from/env")

	merged, err := NewBuilder().
		AddSource(mapSource{m: map[string]any{"path": "/defaults"}}).
		AddEnv("BEETLE_TEST").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := merged.Get("path"); got != "/from/env" {
		t.Errorf("env layer should override the source layer, got: %v", got)
	}
}

func TestDecode(t *testing.T) {
	type nested struct {
		K string `mapstructure:"k"`
	}
	type target struct {
		Path   string `mapstructure:"path"`
		Nested nested `mapstructure:"nested"`
	}

	merged, err := NewBuilder().
		AddSource(mapSource{m: map[string]any{"path": "/a", "nested": map[string]any{"k": "v"}}}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var got target
	if err := merged.Decode(&got); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := target{Path: "/a", Nested: nested{K: "v"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decode mismatch: want %+v, got %+v", want, got)
	}
}

func TestSourceClonedAtRegistration(t *testing.T) {
	src := mapSource{m: map[string]any{"path": "/original"}}

	b := NewBuilder().AddSource(src)
	src.m["path"] = "/mutated"

	merged, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := merged.Get("path"); got != "/original" {
		t.Errorf("builder should hold a clone, got: %v", got)
	}
}
