// Package factory selects and builds the ai.Provider for a configuration's
// backend.
package factory
