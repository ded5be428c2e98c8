package domain

// FileOp classifies a file system change seen by a directory watcher.
type FileOp string

const (
	FileCreated  FileOp = "created"
	FileModified FileOp = "modified"
	FileRemoved  FileOp = "removed"
)

// FileEvent is one file system change in a watched directory.
type FileEvent struct {
	// Path is the absolute path of the changed file.
	Path string

	// Op is the kind of change.
	Op FileOp
}
