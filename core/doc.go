// Package core defines the domain model of the chunk position-recovery
// engine: source chunks, match results with their confidence tiers and
// methods, aggregate statistics, and input validation.
package core
