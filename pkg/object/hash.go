package object

import (
	"crypto/sha1"
	"encoding/hex"
)

// frame builds the on-disk record "type\0payload".
func frame(objType ObjectType, data []byte) []byte {
	raw := make([]byte, 0, len(objType)+1+len(data))
	raw = append(raw, objType...)
	raw = append(raw, 0)
	raw = append(raw, data...)
	return raw
}

// HashObject computes the SHA-1 of the framed record "type\0payload".
func HashObject(objType ObjectType, data []byte) Hash {
	return hashFramed(frame(objType, data))
}

func hashFramed(raw []byte) Hash {
	sum := sha1.Sum(raw)
	return Hash(hex.EncodeToString(sum[:]))
}
