package models

// Doc is one row of the documents table: the backend-native view of a
// repository object, before adapter resolution turns it into an
// externally visible ItemSnapshot.
type Doc struct {
	ID         string
	Repository RepoName
	ParentID   string
	Path       string
	Name       string

	// Type is the backend document type (e.g. "File", "Folder",
	// "Note"). Adapter strategy resolution is cached per type.
	Type       string
	Folderish  bool
	Digest     string
	SizeBytes  int64
	ModifiedAt Watermark

	// Writers lists the principals holding write permission on the
	// document. Used for the pre-mutation check on root registration.
	Writers []string
}
