package recommendation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PreferenceExtraction is the persisted output of running preference
// extraction over a contact's notes. Likes/Dislikes/Uncertain hold JSON
// arrays of preference records ({item, weight, evidence[]}); entries may
// also be bare strings when the backend returned shorthand, normalization
// happens at read time.
type PreferenceExtraction struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;index;column:contact_id" json:"contact_id"`

	Likes     datatypes.JSON `gorm:"type:jsonb;column:likes" json:"likes"`
	Dislikes  datatypes.JSON `gorm:"type:jsonb;column:dislikes" json:"dislikes"`
	Uncertain datatypes.JSON `gorm:"type:jsonb;column:uncertain" json:"uncertain"`

	// SourceHash lets the service skip re-extraction when notes are unchanged.
	SourceHash string `gorm:"index;column:source_hash" json:"source_hash"`
	Model      string `gorm:"column:model" json:"model"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PreferenceExtraction) TableName() string { return "preference_extraction" }
