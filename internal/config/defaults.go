package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# bumpver configuration
# See 'bumpver config -h' for commands, 'bumpver config keys' for all options

# Version source
manifest: ""                          # Version file (empty = detect package.json, VERSION, version.yml)
manifest_format: auto                 # auto | json | yaml | text

# Changelog settings
changelog:
  path: CHANGELOG.md                  # Changelog document to prepend entries to
  header_lines: 0                     # Fixed header length for documents without the entry marker
  project: ""                         # Project name used in a newly created changelog header

# Repository used in commit links (empty = GITHUB_REPOSITORY or the git remote)
repository:
  owner: ""
  name: ""

# Git settings for 'bumpver release'
git:
  commit: true                        # Commit the version file and changelog
  tag: true                           # Create an annotated tag
  push: false                         # Push branch and tag
  remote: origin                      # Remote to push to and read the repository from
  tag_prefix: v                       # Tag name is prefix + version
  commit_message: "chore(release): {{version}}"
  author_name: ""                     # Commit author (empty = git config)
  author_email: ""

# Slack notifications
notifications:
  enabled: false                      # Enable notifications (opt-in)
  webhook_url: ""                     # Slack incoming webhook URL
  channel: ""                         # Channel override (empty = webhook default)
  username: bumpver                   # Bot name
  on_success: true                    # Notify when a release completes
  on_error: true                      # Notify when a release fails
  timeout: 10s                        # Webhook request timeout

# History settings
state_dir: ~/.bumpver/state           # Directory for state files
max_history_entries: 500              # Max release history entries to retain
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		// manifest: empty means detect the version file in the working directory.
		"manifest":        "",
		"manifest_format": "auto",
		"changelog": map[string]interface{}{
			"path":         "CHANGELOG.md",
			"header_lines": 0, // 0 requires the entry marker in existing documents
			"project":      "",
		},
		"repository": map[string]interface{}{
			"owner": "",
			"name":  "",
		},
		"git": map[string]interface{}{
			"commit":         true,
			"tag":            true,
			"push":           false, // Pushing is opt-in
			"remote":         "origin",
			"tag_prefix":     "v",
			"commit_message": "chore(release): {{version}}",
			"author_name":    "",
			"author_email":   "",
		},
		// notifications: Slack webhook settings. Disabled by default (opt-in).
		"notifications": map[string]interface{}{
			"enabled":     false,
			"webhook_url": "",
			"channel":     "",
			"username":    "bumpver",
			"on_success":  true,
			"on_error":    true,
			"timeout":     (10 * time.Second).String(),
		},
		"state_dir": "~/.bumpver/state",
		// max_history_entries: Maximum number of release history entries to retain.
		// Oldest entries are pruned when this limit is exceeded.
		"max_history_entries": 500,
	}
}
