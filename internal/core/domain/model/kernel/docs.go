// Package kernel contains shared value objects used across the domain model.
// These are immutable, validated types with no dependencies on other domain
// packages: UUID identifiers and exact-decimal Money.
//
// Value objects in this package follow the constructor pattern: the zero value
// is invalid and Validate() reports whether the object was created through one
// of its factory functions.
package kernel
