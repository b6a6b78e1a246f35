package recommendation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecommendationRun is the audit record of one recommendation request:
// the pool/working-set sizes, whether the model ranking was used or the
// deterministic fallback kicked in, and the chosen gift ids in result order.
type RecommendationRun struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;index;column:contact_id" json:"contact_id"`

	RequestedCount int  `gorm:"not null;column:requested_count" json:"requested_count"`
	PoolSize       int  `gorm:"not null;column:pool_size" json:"pool_size"`
	WorkingSetSize int  `gorm:"not null;column:working_set_size" json:"working_set_size"`
	UsedFallback   bool `gorm:"not null;default:false;column:used_fallback" json:"used_fallback"`
	ProfileUsed    bool `gorm:"not null;default:false;column:profile_used" json:"profile_used"`

	ChosenGiftIDs datatypes.JSON `gorm:"type:jsonb;column:chosen_gift_ids" json:"chosen_gift_ids"`

	Model     string `gorm:"column:model" json:"model"`
	LatencyMS int64  `gorm:"column:latency_ms" json:"latency_ms"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (RecommendationRun) TableName() string { return "recommendation_run" }
