// Package services contains the core business logic, implementing the
// driving ports using the driven ports. Services are constructed with
// their dependencies and hold no global state.
package services
