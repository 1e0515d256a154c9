// Package heads turns the "list of current heads of state and government"
// wikitable into a structured store of officeholders per state.
//
// This package contains domain types, interfaces and the pure parts of the
// table walk, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, sqlite/, http/).
package heads

// DefaultSourceURL is the page the store is built from.
const DefaultSourceURL = "https://en.wikipedia.org/wiki/List_of_current_heads_of_state_and_government"
