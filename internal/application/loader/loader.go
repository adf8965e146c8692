// Package loader reads serialization definitions from YAML and registers
// them against a base object.
package loader

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/dqs/internal/log"
	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/registry"
)

//go:embed definitions.yaml
var builtin []byte

// ErrInvalidDefinition is returned for definitions that cannot become a chain.
var ErrInvalidDefinition = errors.New("invalid serialization definition")

// File is the root structure of a definitions file.
type File struct {
	Serializations []Definition `yaml:"serializations"`
}

// Definition describes one named serialization.
type Definition struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Operations  []OperationDef `yaml:"operations"`
}

// OperationDef is one recorded call. Kwargs is a list so key order survives.
type OperationDef struct {
	Op     string     `yaml:"op"`
	Args   []any      `yaml:"args"`
	Kwargs []KwargDef `yaml:"kwargs"`
}

// KwargDef is a single keyword argument.
type KwargDef struct {
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
}

// Chain records the definition's operations on a new chain.
func (d Definition) Chain() (*chain.Chain, error) {
	c := chain.New()
	for i, op := range d.Operations {
		if op.Op == "" {
			return nil, fmt.Errorf("%w: %s: operation %d has no op", ErrInvalidDefinition, d.Name, i)
		}
		kwargs := make([]chain.Kwarg, len(op.Kwargs))
		for j, kw := range op.Kwargs {
			kwargs[j] = chain.KW(kw.Key, kw.Value)
		}
		c = c.Call(op.Op, op.Args, kwargs...)
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, d.Name, err)
	}
	return c, nil
}

// Parse decodes a definitions document.
func Parse(data []byte) ([]Definition, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}
	seen := make(map[string]bool, len(file.Serializations))
	for i, def := range file.Serializations {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: serialization %d has no name", ErrInvalidDefinition, i)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("%w: %s defined twice", ErrInvalidDefinition, def.Name)
		}
		seen[def.Name] = true
	}
	return file.Serializations, nil
}

// Builtin returns the embedded definitions.
func Builtin() ([]Definition, error) {
	return Parse(builtin)
}

// LoadFS reads and parses name from fsys.
func LoadFS(fsys fs.FS, name string) ([]Definition, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return defs, nil
}

// Load reads definitions from path, or the built-in set when path is empty.
func Load(path string) ([]Definition, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user config
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// Register registers every definition in reg against base. It stops at the
// first failure; definitions registered before it stay registered.
func Register(reg *registry.Registry, defs []Definition, base chain.Target) error {
	for _, def := range defs {
		c, err := def.Chain()
		if err != nil {
			return err
		}
		if _, err := reg.Register(def.Name, c, base); err != nil {
			return fmt.Errorf("register %s: %w", def.Name, err)
		}
	}
	log.Debug(log.CatRegistry, "Loaded serialization definitions", "count", len(defs))
	return nil
}

// Descriptions indexes definition descriptions by name.
func Descriptions(defs []Definition) map[string]string {
	out := make(map[string]string, len(defs))
	for _, def := range defs {
		out[def.Name] = def.Description
	}
	return out
}
