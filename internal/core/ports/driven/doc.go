// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// The core services depend only on these interfaces; concrete
// implementations live under internal/adapters/driven and are wired in
// at startup.
package driven
