// Package examplefile loads the (input, expected-output) example sets that
// drive one synthesis call from a YAML file on disk. It is a collaborator
// the core engine (pkg/synth) never imports — CLI-only plumbing.
package examplefile

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/rfielding/progsynth/pkg/shapedsl"
	"github.com/rfielding/progsynth/pkg/strdsl"
)

// Task names the DSL an example file targets.
type Task string

const (
	TaskShape  Task = "shape"
	TaskString Task = "string"
)

// ShapeExample is one shape example as it appears in a YAML file.
type ShapeExample struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Inside bool    `yaml:"inside"`
}

// StringExample is one string example as it appears in a YAML file.
type StringExample struct {
	Input    string `yaml:"input"`
	Expected string `yaml:"expected"`
}

// File is the on-disk schema: exactly one of Shapes or Strings is populated,
// matching Task.
type File struct {
	Task          Task            `yaml:"task"`
	Shapes        []ShapeExample  `yaml:"shapes,omitempty"`
	Strings       []StringExample `yaml:"strings,omitempty"`
	MaxIterations int             `yaml:"max_iterations,omitempty"`
	Accumulate    bool            `yaml:"accumulate,omitempty"`
}

// Load reads and parses path. Malformed YAML is reported with the line/column
// context goccy/go-yaml's error formatter provides.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("examplefile: reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("examplefile: parsing %s:\n%s", path, yaml.FormatError(err, false, true))
	}

	switch f.Task {
	case TaskShape, TaskString:
	default:
		return nil, fmt.Errorf("examplefile: %s: unknown task %q (want %q or %q)", path, f.Task, TaskShape, TaskString)
	}
	if f.Task == TaskShape && len(f.Shapes) == 0 {
		return nil, fmt.Errorf("examplefile: %s: task %q requires at least one shape example", path, TaskShape)
	}
	if f.Task == TaskString && len(f.Strings) == 0 {
		return nil, fmt.Errorf("examplefile: %s: task %q requires at least one string example", path, TaskString)
	}

	return &f, nil
}

// ShapeExamples converts the file's shape entries to shapedsl.Example.
func (f *File) ShapeExamples() []shapedsl.Example {
	out := make([]shapedsl.Example, len(f.Shapes))
	for i, s := range f.Shapes {
		out[i] = shapedsl.Example{X: s.X, Y: s.Y, Inside: s.Inside}
	}
	return out
}

// StringExamples converts the file's string entries to strdsl.Example.
func (f *File) StringExamples() []strdsl.Example {
	out := make([]strdsl.Example, len(f.Strings))
	for i, s := range f.Strings {
		out[i] = strdsl.Example{Input: s.Input, Expected: s.Expected}
	}
	return out
}
