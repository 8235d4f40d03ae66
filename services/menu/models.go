package menu

import (
	"time"
)

// DailyMenu holds the four free-text meal fields published for one date and
// tenant. Menus are upserted wholesale, never patched field by field.
type DailyMenu struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	MealDate    string    `json:"meal_date" gorm:"size:10;not null;uniqueIndex:idx_menus_date_college"`
	CollegeName string    `json:"college_name" gorm:"size:255;not null;uniqueIndex:idx_menus_date_college"`
	Breakfast   string    `json:"breakfast" gorm:"size:1000"`
	Lunch       string    `json:"lunch" gorm:"size:1000"`
	Snacks      string    `json:"snacks" gorm:"size:1000"`
	Dinner      string    `json:"dinner" gorm:"size:1000"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DailyMenu) TableName() string {
	return "daily_menus"
}
