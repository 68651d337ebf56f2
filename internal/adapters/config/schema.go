package config

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Recipefile represents the structure of the recipe.yaml descriptor.
type Recipefile struct {
	Name           string          `yaml:"name"`
	Version        scalar          `yaml:"version"`
	License        string          `yaml:"license"`
	Author         string          `yaml:"author"`
	URL            string          `yaml:"url"`
	Description    string          `yaml:"description"`
	Topics         []string        `yaml:"topics"`
	NoCopySource   bool            `yaml:"noCopySource"`
	Generators     []string        `yaml:"generators"`
	Settings       []string        `yaml:"settings"`
	Options        map[string]bool `yaml:"options"`
	ExportsSources []string        `yaml:"exportsSources"`
	MinCppStd      scalar          `yaml:"minCppStd"`
	PackageID      string          `yaml:"packageId"`
	Requires       []string        `yaml:"requires"`
	TestRequires   []string        `yaml:"testRequires"`
	Test           *TestDTO        `yaml:"test"`
	Package        *PackageDTO     `yaml:"package"`
}

// TestDTO locates the test binary.
type TestDTO struct {
	Dir    string `yaml:"dir"`
	Binary string `yaml:"binary"`
}

// PackageDTO describes the package contents. A nil list keeps the default,
// an empty list clears it.
type PackageDTO struct {
	Headers     *[]string `yaml:"headers"`
	Libs        []string  `yaml:"libs"`
	BinDirs     []string  `yaml:"bindirs"`
	LibDirs     []string  `yaml:"libdirs"`
	IncludeDirs *[]string `yaml:"includedirs"`
}

// Profilefile represents the structure of a settings profile.
type Profilefile struct {
	Settings map[string]scalar `yaml:"settings"`
	Conf     map[string]scalar `yaml:"conf"`
}

// scalar accepts any YAML scalar and keeps its literal text, so that
// `compiler.version: 13` and `version: 1.0` are read as written.
type scalar string

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"line " + strconv.Itoa(node.Line) + ": expected a scalar value"}}
	}
	*s = scalar(node.Value)
	return nil
}

func toStrings(m map[string]scalar) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = string(v)
	}
	return out
}
