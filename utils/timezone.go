package utils

import (
	"log"
	"sync"
	"time"

	"pawsit/config"
)

var (
	refLoc     *time.Location
	refLocOnce sync.Once
)

// ReferenceLocation returns the platform's fixed reference time zone.
// All availability and gating computations interpret "today" and lead
// times in this zone.
func ReferenceLocation() *time.Location {
	refLocOnce.Do(func() {
		name := config.AppConfig.ReferenceTimeZone
		if name == "" {
			name = "Europe/Berlin"
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Fatalf("failed to load reference time zone %q: %v", name, err)
		}
		refLoc = loc
	})
	return refLoc
}
