// Package storage names files for documents and versions. No bytes are stored: the paths
// are synthetic keys kept on the metadata rows.
package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	documentsPrefix = "/documents"
	versionsPrefix  = "/documents/versions"
)

// Paths generates storage keys of the form {prefix}/{uuid}_{fileName}.
type Paths struct {
	newID func() string
}

// NewPaths returns a generator backed by random UUIDs.
func NewPaths() *Paths {
	return &Paths{newID: func() string { return uuid.New().String() }}
}

// DocumentPath returns a fresh key for a document upload.
func (p *Paths) DocumentPath(fileName string) string {
	return p.key(documentsPrefix, fileName)
}

// VersionPath returns a fresh key for a document version.
func (p *Paths) VersionPath(fileName string) string {
	return p.key(versionsPrefix, fileName)
}

func (p *Paths) key(prefix, fileName string) string {
	return path.Join(prefix, p.newID()+"_"+cleanName(fileName))
}

// cleanName keeps only the last path element so callers cannot escape the prefix.
func cleanName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return "file"
	}
	return base
}
