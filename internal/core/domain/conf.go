package domain

import (
	"maps"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Conf keys read by the driver.
const (
	// ConfSkipTest disables running the test binary after a build.
	ConfSkipTest = "tools.build:skip_test"
	// ConfCMakeGenerator selects the CMake generator.
	ConfCMakeGenerator = "tools.cmake.cmaketoolchain:generator"
)

// Conf holds namespaced configuration values such as "tools.build:skip_test".
type Conf struct {
	values map[string]string
}

// NewConf validates the keys and returns an immutable Conf.
func NewConf(values map[string]string) (Conf, error) {
	c := Conf{values: make(map[string]string, len(values))}
	for k, v := range values {
		section, name, ok := strings.Cut(k, ":")
		if !ok || section == "" || name == "" {
			return Conf{}, zerr.With(ErrInvalidConf, "key", k)
		}
		c.values[k] = v
	}
	return c, nil
}

// Get returns the raw value of key.
func (c Conf) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Bool returns the value of key as a boolean, or def when unset or unparsable.
func (c Conf) Bool(key string, def bool) bool {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// SkipTest reports whether tools.build:skip_test is enabled.
func (c Conf) SkipTest() bool {
	return c.Bool(ConfSkipTest, false)
}

// Merge returns a new Conf with other's values taking precedence.
func (c Conf) Merge(other Conf) Conf {
	out := Conf{values: make(map[string]string, len(c.values)+len(other.values))}
	maps.Copy(out.values, c.values)
	maps.Copy(out.values, other.values)
	return out
}

// Values returns a copy of all conf values.
func (c Conf) Values() map[string]string {
	out := make(map[string]string, len(c.values))
	maps.Copy(out, c.values)
	return out
}
