// Package domain contains the core business entities for docchat.
// It has no dependencies on adapters or external services.
package domain
