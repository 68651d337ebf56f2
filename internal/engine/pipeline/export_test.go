package pipeline

import "time"

// SetClock replaces the clock used for package manifests.
func (d *Driver) SetClock(now func() time.Time) {
	d.now = now
}
