// Package types defines the entities managed by tally, the backend
// configuration, and the standard errors shared by managers and stores.
//
// Entities are plain values. Constructors validate and normalize raw input;
// Validate re-checks a value that was decoded from a store.
package types
