package domain

// GenerateInput is everything a generator may render into its files.
type GenerateInput struct {
	Recipe   *Recipe
	Settings Settings
	Options  Options
	Conf     Conf
	Layout   Layout
	Deps     []ResolvedRequirement
}

// GeneratedFile is a file written by a generator.
type GeneratedFile struct {
	Path string
	// Changed is false when the file already had the rendered content.
	Changed bool
}
