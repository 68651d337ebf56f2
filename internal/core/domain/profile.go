package domain

// Profile is a named set of settings and conf values read from a file.
type Profile struct {
	Settings map[string]string
	Conf     map[string]string
}
