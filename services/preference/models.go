package preference

import (
	"time"
)

// MealPreference records which meals a student opts out of for one date.
// Each flag is upserted independently; unset flags stay untouched.
type MealPreference struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	UserID        string    `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_preferences_user_date"`
	MealDate      string    `json:"meal_date" gorm:"size:10;not null;uniqueIndex:idx_preferences_user_date"`
	CollegeName   string    `json:"college_name" gorm:"size:255;not null;index"`
	SkipBreakfast bool      `json:"skip_breakfast" gorm:"not null;default:false"`
	SkipLunch     bool      `json:"skip_lunch" gorm:"not null;default:false"`
	SkipSnacks    bool      `json:"skip_snacks" gorm:"not null;default:false"`
	SkipDinner    bool      `json:"skip_dinner" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (MealPreference) TableName() string {
	return "meal_preferences"
}
