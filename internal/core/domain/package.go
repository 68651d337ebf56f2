package domain

import "time"

// DefaultIncludeDir is the include directory consumers add when a recipe declares none.
const DefaultIncludeDir = "include"

// PackageInfo is the consumer-facing description of a built package.
type PackageInfo struct {
	Libs        []string `json:"libs" yaml:"libs"`
	BinDirs     []string `json:"bindirs" yaml:"bindirs"`
	LibDirs     []string `json:"libdirs" yaml:"libdirs"`
	IncludeDirs []string `json:"includedirs" yaml:"includedirs"`
	Requires    []string `json:"requires" yaml:"requires"`
}

// FileDigest records a packaged file and its content hash.
type FileDigest struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

// PackageManifest is the record of one binary package. It is written as the
// identity manifest into the package folder and persisted in the package store.
type PackageManifest struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	License     string            `json:"license,omitempty"`
	Author      string            `json:"author,omitempty"`
	URL         string            `json:"url,omitempty"`
	Description string            `json:"description,omitempty"`
	Topics      []string          `json:"topics,omitempty"`
	PackageID   PackageID         `json:"package_id"`
	Path        string            `json:"path"`
	Settings    map[string]string `json:"settings,omitempty"`
	Options     map[string]bool   `json:"options,omitempty"`
	Info        PackageInfo       `json:"cpp_info"`
	Files       []FileDigest      `json:"files"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Ref returns the "name/version" reference of the packaged recipe.
func (m *PackageManifest) Ref() string {
	return m.Name + "/" + m.Version
}

// ExportManifest records the sources exported for a recipe.
type ExportManifest struct {
	Name    string       `json:"name"`
	Version string       `json:"version"`
	Files   []FileDigest `json:"files"`
}
