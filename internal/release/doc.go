// Package release orchestrates a version bump: it reads the current version,
// computes the next one, writes it back, prepends a changelog entry for the
// HEAD commit and optionally commits, tags and pushes the result.
//
// Collaborators are injected as interfaces so the workflow can be exercised
// without a repository or network.
package release
