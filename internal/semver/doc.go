// Package semver computes release versions for bumpver.
//
// Versions are strict dotted triplets ("1.2.3"). Major and minor increments
// follow semantic versioning; patch increments use the patch-cycle convention:
// the first patch after a major or minor release is numbered 100, and every
// later patch adds one.
//
// All functions in this package are pure and safe for concurrent use.
package semver
