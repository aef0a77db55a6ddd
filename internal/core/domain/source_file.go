package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// SourceFile represents one scanned source file. It is created by the
// directory scan and immutable within a pipeline run.
type SourceFile struct {
	// Path is the absolute path on disk.
	Path string

	// RelPath is the path relative to the scanned root. It is the unique
	// key used by the fingerprint record and the docs output layout.
	RelPath string

	// Content is the raw file content.
	Content []byte

	// Fingerprint is the content digest, computed at scan time.
	Fingerprint string
}

// ModuleName returns the module name derived from the file name,
// e.g. "api/users.py" -> "users".
func (f SourceFile) ModuleName() string {
	base := filepath.Base(f.RelPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NewFingerprint computes the deterministic content digest used for
// change detection. Identical content yields an identical fingerprint;
// any byte change yields a different one.
func NewFingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
