package changelog

// Commit holds the metadata of the commit a release entry refers to.
// It is read from version control by the caller and never fetched here.
type Commit struct {
	SHA     string `yaml:"sha"`
	Author  string `yaml:"author"`
	Message string `yaml:"message"`
}

// ShortSHA returns the first 7 characters of the SHA, or the whole SHA when it
// is shorter.
func (c Commit) ShortSHA() string {
	if len(c.SHA) < ShortSHALength {
		return c.SHA
	}
	return c.SHA[:ShortSHALength]
}

// Repository identifies the GitHub repository used in commit links.
type Repository struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// IsZero returns true if neither owner nor name is set.
func (r Repository) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// String returns "owner/name".
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// CommitURL returns the web URL of a commit in the repository.
func (r Repository) CommitURL(sha string) string {
	return "https://github.com/" + r.Owner + "/" + r.Name + "/commit/" + sha
}

// Release is a parsed entry from an existing changelog document.
// Fields that could not be found in the entry are left empty.
type Release struct {
	Version   string
	Date      string
	Author    string
	ShortSHA  string
	CommitURL string
	Message   string
}
