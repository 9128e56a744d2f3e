// Package events declares the case lifecycle events and aliases the platform
// bus, so internal modules publish and subscribe through a single import.
package events

import (
	platformevents "caseflow_backend/platform/events"
	"caseflow_backend/platform/logger"
)

// InMemoryBus aliases the platform implementation.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus builds the bus both binaries share at startup.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
