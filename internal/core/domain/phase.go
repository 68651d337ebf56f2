package domain

// Phase names, used for spans and log prefixes.
const (
	PhaseConfigureOptions = "configure_options"
	PhaseValidate         = "validate"
	PhaseLayout           = "layout"
	PhaseGenerate         = "generate"
	PhaseBuild            = "build"
	PhaseTest             = "test"
	PhasePackage          = "package"
	PhasePackageInfo      = "package_info"
	PhaseExport           = "export"
)
