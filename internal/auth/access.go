package auth

import "docsportal/internal/model"

// HasAccess decides whether userID may act on doc at the requested level.
//
// grant is the explicit ACL row for (doc, user), or nil when none exists. A grant that
// belongs to another document or user is ignored.
func HasAccess(doc *model.Document, userID string, requested model.AccessLevel, grant *model.DocumentAccess) bool {
	if doc == nil || !doc.IsActive || !requested.Valid() {
		return false
	}
	if doc.IsPublic && requested == model.AccessRead {
		return true
	}
	if userID != "" && doc.CreatedBy == userID {
		return true
	}
	if grant == nil || grant.DocumentID != doc.ID || grant.UserID != userID {
		return false
	}
	return grant.AccessType.Allows(requested)
}
