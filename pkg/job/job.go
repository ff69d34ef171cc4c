// Package job assembles complete G-code programs from YAML job files: an
// ordered list of shape operations with machine defaults filled in from the
// settings.
package job

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"millgen/pkg/cfg"
	"millgen/pkg/gcode"
)

// ErrInvalidJob reports a job file that cannot be decoded or names an
// unknown operation kind.
var ErrInvalidJob = xerrors.New("invalid job")

// GCodeExtension is appended to job names to form output file names.
const GCodeExtension = ".ngc"

// Job is one output program.
type Job struct {
	Name string `yaml:"name"`
	// SortDrills reorders runs of consecutive drill operations to shorten
	// rapid moves.
	SortDrills bool        `yaml:"sort_drills"`
	Operations []Operation `yaml:"operations"`
}

// Decode reads a job from YAML. Unknown keys are rejected.
func Decode(r io.Reader) (Job, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Job{}, xerrors.Errorf("reading job: %w", err)
	}
	var j Job
	if err := yaml.UnmarshalStrict(data, &j); err != nil {
		return Job{}, xerrors.Errorf("%w: %v", ErrInvalidJob, err)
	}
	for i, op := range j.Operations {
		if _, ok := builders[op.Kind]; !ok {
			return Job{}, xerrors.Errorf("%w: operation %d: unknown kind %q", ErrInvalidJob, i, op.Kind)
		}
	}
	return j, nil
}

// ReadFile decodes the job file at path. A job without a name takes the file
// name without its extension.
func ReadFile(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, xerrors.Errorf("reading job: %w", err)
	}
	j, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Job{}, xerrors.Errorf("%s: %w", path, err)
	}
	if j.Name == "" {
		base := filepath.Base(path)
		j.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return j, nil
}

// Build renders every operation of the job, in output order, with missing
// machine parameters taken from s. It fails on the first operation that
// fails, naming it by its position in the job file.
func Build(j Job, s cfg.Settings) ([]gcode.Block, error) {
	order := make([]int, len(j.Operations))
	for i := range order {
		order[i] = i
	}
	if j.SortDrills {
		order = sortOrder(j.Operations)
	}

	blocks := make([]gcode.Block, 0, len(order))
	for _, i := range order {
		op := j.Operations[i]
		block, err := op.Build(s)
		if err != nil {
			return nil, xerrors.Errorf("operation %d (%s): %w", i, op.Kind, err)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// Generate renders the complete program of the job: preamble, every
// operation, postamble.
func Generate(j Job, s cfg.Settings) (gcode.Block, error) {
	blocks, err := Build(j, s)
	if err != nil {
		return nil, err
	}
	return gcode.Program(blocks...), nil
}

// OutputPath returns the absolute path of the program named name in dir,
// with symbolic links in dir resolved when dir exists.
func OutputPath(dir, name string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", xerrors.Errorf("resolving %s: %w", dir, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return filepath.Join(abs, name+GCodeExtension), nil
}
