package contact

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is a person the user wants to find gifts for. Rank and relation
// describe the social persona the generative prompts are written around;
// MemoHobby and MemoStyle are the two free-text memos the re-ranker may be
// asked to cover.
type Contact struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Name     string    `gorm:"not null;column:name" json:"name"`
	Rank     string    `gorm:"column:rank" json:"rank"`
	Relation string    `gorm:"column:relation" json:"relation"`
	Gender   string    `gorm:"column:gender" json:"gender"`

	MemoHobby string `gorm:"column:memo_hobby" json:"memo_hobby"`
	MemoStyle string `gorm:"column:memo_style" json:"memo_style"`

	// Notes is the raw free text preference extraction reads from.
	Notes string `gorm:"type:text;column:notes" json:"notes"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Contact) TableName() string { return "contact" }
