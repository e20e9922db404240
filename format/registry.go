package format

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnknownFormat is matched by errors for names no format is registered under.
var ErrUnknownFormat = errors.New("unknown format")

// Registry maps format names to their implementations.
type Registry struct {
	formats map[string]Format
}

// DefaultRegistry is filled by the format packages' init functions.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// Register adds f under its lower-cased name, replacing any format of the same name.
func (r *Registry) Register(f Format) {
	r.formats[strings.ToLower(f.Name())] = f
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	return slices.Sorted(maps.Keys(r.formats))
}

func (r *Registry) find(name string) (Format, error) {
	f, ok := r.formats[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownFormat, name, strings.Join(r.List(), ", "))
	}
	return f, nil
}

// GetParser returns the named format if it can read batches.
func (r *Registry) GetParser(name string) (Parser, error) {
	f, err := r.find(name)
	if err != nil {
		return nil, err
	}
	p, ok := f.(Parser)
	if !ok {
		return nil, fmt.Errorf("format %s is output only", f.Name())
	}
	return p, nil
}

// GetSerializer returns the named format if it can write batches.
func (r *Registry) GetSerializer(name string) (Serializer, error) {
	f, err := r.find(name)
	if err != nil {
		return nil, err
	}
	s, ok := f.(Serializer)
	if !ok {
		return nil, fmt.Errorf("format %s is input only", f.Name())
	}
	return s, nil
}

// Detect picks a format by the extension of filename, then by the leading
// bytes of the input. Formats are tried in name order.
func (r *Registry) Detect(filename string, peek []byte) (Format, error) {
	names := r.List()

	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")); ext != "" {
		for _, name := range names {
			if slices.Contains(r.formats[name].Extensions(), ext) {
				return r.formats[name], nil
			}
		}
	}

	peek = bytes.TrimSpace(peek)
	if len(peek) > 0 {
		for _, name := range names {
			if r.formats[name].CanParse(peek) {
				return r.formats[name], nil
			}
		}
	}

	return nil, fmt.Errorf("could not detect the format of %s", filename)
}

// Register adds a format to the default registry.
func Register(f Format) {
	DefaultRegistry.Register(f)
}

// GetParser looks up a parser in the default registry.
func GetParser(name string) (Parser, error) {
	return DefaultRegistry.GetParser(name)
}

// GetSerializer looks up a serializer in the default registry.
func GetSerializer(name string) (Serializer, error) {
	return DefaultRegistry.GetSerializer(name)
}

// Detect detects a format with the default registry.
func Detect(filename string, peek []byte) (Format, error) {
	return DefaultRegistry.Detect(filename, peek)
}
