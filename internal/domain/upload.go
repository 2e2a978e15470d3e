package domain

// FileInputKind discriminates the three states an optional file parameter
// can take on a write request.
type FileInputKind int

const (
	// FileNone means the request did not touch the file field.
	FileNone FileInputKind = iota
	// FileRemove means the request asked for the stored file to be removed.
	FileRemove
	// FileNew means the request carries a replacement file.
	FileNew
)

// FileInput is the decoded file parameter of a multipart request. The kind is
// decided once at the HTTP boundary; downstream code switches on it instead
// of re-interpreting empty strings or missing parts.
type FileInput struct {
	Kind     FileInputKind
	Filename string
	Data     []byte
}
