package domain

import (
	"strconv"

	"go.trai.ch/zerr"
)

var (
	// ErrValidation is returned when the configuration cannot build the package,
	// typically because the compiler cannot satisfy the minimum language standard.
	ErrValidation = zerr.New("invalid configuration")

	// ErrBuild is returned when the native build system fails to configure or compile.
	ErrBuild = zerr.New("build failed")

	// ErrTestFailure is returned when the compiled test binary exits with a non-zero status.
	ErrTestFailure = zerr.New("tests failed")

	// ErrFileSystem is returned when installing or copying package files fails.
	ErrFileSystem = zerr.New("file system operation failed")

	// ErrPhaseOrder is returned when a phase receives a result that was not produced by the previous phase.
	ErrPhaseOrder = zerr.New("phase invoked out of order")

	// ErrMissingName is returned when a recipe does not declare a package name.
	ErrMissingName = zerr.New("recipe is missing a package name")

	// ErrInvalidName is returned when a package name contains invalid characters.
	ErrInvalidName = zerr.New("package name can only contain lowercase alphanumeric characters, '.', '+', '-' and '_'")

	// ErrInvalidVersion is returned when a package version is not a valid semantic version.
	ErrInvalidVersion = zerr.New("invalid package version")

	// ErrInvalidRequirement is returned when a requirement reference cannot be parsed.
	ErrInvalidRequirement = zerr.New("invalid requirement, expected format: name/version")

	// ErrDuplicateRequirement is returned when the same package is required twice.
	ErrDuplicateRequirement = zerr.New("duplicate requirement")

	// ErrUnknownOption is returned when an option override names an option the recipe does not declare.
	ErrUnknownOption = zerr.New("unknown option")

	// ErrInvalidOptionValue is returned when an option value is not a boolean.
	ErrInvalidOptionValue = zerr.New("invalid option value, expected True or False")

	// ErrUnknownSetting is returned when a setting key is not recognized.
	ErrUnknownSetting = zerr.New("unknown setting")

	// ErrInvalidBuildType is returned when build_type is not one of the CMake build types.
	ErrInvalidBuildType = zerr.New("invalid build type, expected Debug, Release, RelWithDebInfo or MinSizeRel")

	// ErrInvalidConf is returned when a conf key is not namespaced as "section:name".
	ErrInvalidConf = zerr.New("invalid conf key, expected format: section:name")

	// ErrInvalidCppStd is returned when a C++ standard value cannot be parsed.
	ErrInvalidCppStd = zerr.New("invalid C++ standard")

	// ErrUnsupportedCompiler is returned when the compiler is unknown or missing.
	ErrUnsupportedCompiler = zerr.New("unsupported compiler")

	// ErrCppStdTooLow is returned when the selected or supported C++ standard is below the minimum.
	ErrCppStdTooLow = zerr.New("C++ standard below the required minimum")

	// ErrCppStdUnsupported is returned when compiler.cppstd is newer than the compiler supports.
	ErrCppStdUnsupported = zerr.New("C++ standard not supported by the compiler")

	// ErrUnknownGenerator is returned when a recipe declares a generator that is not available.
	ErrUnknownGenerator = zerr.New("unknown generator")

	// ErrInvalidPackageIDMode is returned when packageId is neither "full" nor "clear".
	ErrInvalidPackageIDMode = zerr.New("invalid packageId mode, expected 'full' or 'clear'")

	// ErrReservedPath is returned when a copied file would overwrite the package identity manifest.
	ErrReservedPath = zerr.New("refusing to overwrite reserved package file")

	// ErrNoFilesMatched is returned when an export pattern list matches nothing.
	ErrNoFilesMatched = zerr.New("no files matched")

	// ErrRecipeNotFound is returned when no recipe file can be found.
	ErrRecipeNotFound = zerr.New("could not find recipe file")

	// ErrRecipeReadFailed is returned when the recipe file cannot be read.
	ErrRecipeReadFailed = zerr.New("failed to read recipe file")

	// ErrRecipeParseFailed is returned when the recipe file cannot be parsed.
	ErrRecipeParseFailed = zerr.New("failed to parse recipe file")

	// ErrProfileReadFailed is returned when a profile cannot be read.
	ErrProfileReadFailed = zerr.New("failed to read profile")

	// ErrProfileParseFailed is returned when a profile cannot be parsed.
	ErrProfileParseFailed = zerr.New("failed to parse profile")

	// ErrStoreCreateFailed is returned when the package store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create package store directory")

	// ErrStoreReadFailed is returned when a package record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read package record")

	// ErrStoreUnmarshalFailed is returned when a package record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal package record")

	// ErrStoreMarshalFailed is returned when a package record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal package record")

	// ErrStoreWriteFailed is returned when a package record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write package record")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrFileCopyFailed is returned when a file cannot be copied.
	ErrFileCopyFailed = zerr.New("failed to copy file")

	// ErrFileWriteFailed is returned when a generated file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrCommandStartFailed is returned when a child process cannot be started.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrInvalidAssignment is returned when a command line value is not of the form key=value.
	ErrInvalidAssignment = zerr.New("invalid assignment, expected key=value")

	// ErrUnknownFormat is returned when inspect is asked for an unsupported output format.
	ErrUnknownFormat = zerr.New("unknown output format, expected yaml or json")

	// ErrCleanFailed is returned when a folder cannot be removed.
	ErrCleanFailed = zerr.New("failed to remove folder")
)

// ExitError reports a child process that ran to completion with a non-zero status.
// The exit code is the only signal the driver trusts; output is never parsed.
type ExitError struct {
	Command string
	Code    int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Command + ": exit status " + strconv.Itoa(e.Code)
}
