// Package bundle consumes the build descriptor and drives the external
// freeze tool that turns the converter application into a standalone
// executable. No freezing happens in-process; dm stages inputs, shells out,
// and verifies the expected artifact appeared.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec is the build descriptor: what to hand the external bundler.
type Spec struct {
	App     App        `yaml:"app"`
	Bundler Bundler    `yaml:"bundler"`
	Modules []string   `yaml:"modules"`
	Data    []DataFile `yaml:"data"`
	Out     string     `yaml:"out"`

	// dir the descriptor was loaded from; relative paths resolve against it
	baseDir string
}

// App describes the application being frozen.
type App struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Version     string `yaml:"version"`
	Entry       string `yaml:"entry"`
	Icon        string `yaml:"icon"`
	Console     bool   `yaml:"console"`
	OneFile     bool   `yaml:"onefile"`
}

// Bundler names the external freeze tool and any extra arguments to pass
// through verbatim.
type Bundler struct {
	Command   string   `yaml:"command"`
	ExtraArgs []string `yaml:"extra_args"`
}

// DataFile is one data file (or tree) to embed, with its destination
// relative to the frozen application root.
type DataFile struct {
	Src  string `yaml:"src"`
	Dest string `yaml:"dest"`
}

// Load reads and validates the descriptor at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path) // #nosec G304 - descriptor path from flag/config
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve descriptor path: %w", err)
	}
	spec.baseDir = filepath.Dir(abs)
	spec.applyDefaults()

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *Spec) applyDefaults() {
	if s.Bundler.Command == "" {
		s.Bundler.Command = "pyinstaller"
	}
	if s.Out == "" {
		s.Out = "dist"
	}
	if s.App.DisplayName == "" {
		s.App.DisplayName = s.App.Name
	}
}

// Validate checks the descriptor for the mistakes that would otherwise
// surface as a cryptic bundler failure.
func (s *Spec) Validate() error {
	if s.App.Name == "" {
		return fmt.Errorf("descriptor: app.name is required")
	}
	if strings.ContainsAny(s.App.Name, " /\\") {
		return fmt.Errorf("descriptor: app.name %q must be a bare name", s.App.Name)
	}
	if s.App.Entry == "" {
		return fmt.Errorf("descriptor: app.entry is required")
	}
	for i, d := range s.Data {
		if d.Src == "" {
			return fmt.Errorf("descriptor: data[%d].src is empty", i)
		}
	}
	return nil
}

// BaseDir returns the directory the descriptor was loaded from.
func (s *Spec) BaseDir() string {
	return s.baseDir
}

// Resolve turns a descriptor-relative path into an absolute one.
func (s *Spec) Resolve(p string) string {
	if filepath.IsAbs(p) || s.baseDir == "" {
		return p
	}
	return filepath.Join(s.baseDir, p)
}

// OutDir returns the absolute dist directory.
func (s *Spec) OutDir() string {
	return s.Resolve(s.Out)
}

// Args assembles the bundler command line from the descriptor. Data files
// must already be staged; staged carries their on-disk locations in the
// same order as s.Data entries that were found.
func (s *Spec) Args(staged []StagedFile) []string {
	args := []string{
		"--noconfirm",
		"--name", s.App.Name,
		"--distpath", s.OutDir(),
	}
	if s.App.OneFile {
		args = append(args, "--onefile")
	} else {
		args = append(args, "--onedir")
	}
	if !s.App.Console {
		args = append(args, "--windowed")
	}
	if s.App.Icon != "" {
		args = append(args, "--icon", s.Resolve(s.App.Icon))
	}
	for _, m := range s.Modules {
		args = append(args, "--hidden-import", m)
	}
	for _, f := range staged {
		args = append(args, "--add-data", f.Path+dataSeparator()+f.Dest)
	}
	args = append(args, s.Bundler.ExtraArgs...)
	args = append(args, s.Resolve(s.App.Entry))
	return args
}

// ArtifactPath returns where the bundler is expected to leave its output:
// a single executable in one-file mode, the executable inside the bundle
// directory otherwise.
func (s *Spec) ArtifactPath() string {
	name := s.App.Name
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if s.App.OneFile {
		return filepath.Join(s.OutDir(), name)
	}
	return filepath.Join(s.OutDir(), s.App.Name, name)
}

// dataSeparator is the src/dest separator the freeze tool expects in
// --add-data arguments: ';' on Windows, ':' elsewhere.
func dataSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}
