package object

// Hash is a 40-character hex-encoded SHA-1 digest of a framed object.
type Hash string

// HashLen is the length of a full hex-encoded Hash.
const HashLen = 40

// Short returns the first 8 characters of h for display.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Valid reports whether t is one of the known object types.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit:
		return true
	}
	return false
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. Kind is TypeBlob for files and
// TypeTree for subdirectories.
type TreeEntry struct {
	Kind ObjectType
	Hash Hash
	Name string
}

// TreeObj holds a sorted list of tree entries.
type TreeObj struct {
	Entries []TreeEntry // sorted by Name
}

// CommitObj represents a commit pointing to a tree. Parent order is
// preserved; the first parent is the mainline side.
type CommitObj struct {
	TreeHash Hash
	Parents  []Hash
	Message  string
}

// IsFullHash reports whether s is exactly 40 lowercase or uppercase hex
// characters.
func IsFullHash(s string) bool {
	return len(s) == HashLen && isHex(s)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
