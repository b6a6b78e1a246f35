package gift

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gift is one catalog item. The vector index stores one embedding per gift
// keyed by ID; name/category/price/description ride along as metadata so the
// pipeline can build candidates without a round trip.
type Gift struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null;index;column:name" json:"name"`
	Category    string    `gorm:"index;column:category" json:"category"`
	Price       string    `gorm:"column:price" json:"price"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	Tags        string    `gorm:"column:tags" json:"tags"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Gift) TableName() string { return "gift" }
