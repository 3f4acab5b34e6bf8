package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Document is a catalogued file. FilePath is a generated placeholder, not a storage pointer.
// This is a pure domain model with no database-specific dependencies or tags.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileName    string    `json:"fileName"`
	FileType    string    `json:"fileType"`
	FileSize    int64     `json:"fileSize"`
	FilePath    string    `json:"filePath"`
	Category    string    `json:"category"`
	Tags        string    `json:"tags,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	IsActive    bool      `json:"isActive"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Read-side projections over active versions.
	VersionCount  int    `json:"versionCount"`
	LatestVersion string `json:"latestVersion,omitempty"`
}

// DocumentAccess is an explicit ACL entry; (DocumentID, UserID) is unique.
type DocumentAccess struct {
	ID         string      `json:"id"`
	DocumentID string      `json:"documentId"`
	UserID     string      `json:"userId"`
	AccessType AccessLevel `json:"accessType"`
	GrantedBy  string      `json:"grantedBy,omitempty"`
	GrantedAt  time.Time   `json:"grantedAt"`
}

// DocumentVersion is an append-only revision entry; (DocumentID, Version) is unique.
type DocumentVersion struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Version    string    `json:"version"`
	FilePath   string    `json:"filePath"`
	FileSize   int64     `json:"fileSize"`
	ChangeLog  string    `json:"changeLog,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AccessLevel is ordered by containment: Admin ⊇ Write ⊇ Read.
type AccessLevel int

const (
	AccessRead AccessLevel = iota + 1
	AccessWrite
	AccessAdmin
)

// ErrUnknownAccessLevel is returned when parsing a level outside Read/Write/Admin.
var ErrUnknownAccessLevel = errors.New("unknown access level")

// ParseAccessLevel accepts the canonical names case-insensitively.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return AccessRead, nil
	case "write":
		return AccessWrite, nil
	case "admin":
		return AccessAdmin, nil
	default:
		return 0, ErrUnknownAccessLevel
	}
}

func (l AccessLevel) String() string {
	switch l {
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	case AccessAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// Valid reports whether l is one of the three defined levels.
func (l AccessLevel) Valid() bool {
	return l >= AccessRead && l <= AccessAdmin
}

// Allows reports whether holding l satisfies a request for requested.
func (l AccessLevel) Allows(requested AccessLevel) bool {
	return l.Valid() && requested.Valid() && l >= requested
}

func (l AccessLevel) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, ErrUnknownAccessLevel
	}
	return json.Marshal(l.String())
}

func (l *AccessLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseAccessLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
