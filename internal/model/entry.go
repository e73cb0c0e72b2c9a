package model

import "time"

// Entry statuses. New entries start unpublished; the owner submits them for
// moderation and a moderator decides between published and rejected.
const (
	StatusPublished         = "published"
	StatusUnpublished       = "unpublished"
	StatusPendingModeration = "pending_moderation"
	StatusRejected          = "rejected"
)

// Entry represents a single diary record.
//
// Slug is unique across all entries and write-once: it is derived from the
// title on first save and never reassigned. AuthorID is nullable so entries
// survive deletion of their author. Views only grows, and only on reads of
// published entries.
type Entry struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Title     string `json:"title" gorm:"size:100;not null"`
	Body      string `json:"body" gorm:"type:text;not null"`
	Slug      string `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	AuthorID  *uint  `json:"author_id,omitempty" gorm:"index"`
	Author    *User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Published bool   `json:"published" gorm:"default:false;index"`
	Status    string `json:"status" gorm:"size:20;default:'unpublished';index"`
	Preview   string `json:"preview,omitempty" gorm:"size:255"`
	Views     uint   `json:"views" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
}

// IsOwnedBy reports whether the given user authored the entry.
func (e *Entry) IsOwnedBy(userID uint) bool {
	return e.AuthorID != nil && *e.AuthorID == userID
}
