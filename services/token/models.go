package token

import (
	"time"
)

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealSnacks    = "snacks"
	MealDinner    = "dinner"
)

// DateLayout is the wire and storage format for meal dates. Dates carry no
// time component; a token is valid for exactly one calendar day.
const DateLayout = "2006-01-02"

func ValidMealType(mealType string) bool {
	switch mealType {
	case MealBreakfast, MealLunch, MealSnacks, MealDinner:
		return true
	}
	return false
}

func MealTypes() []string {
	return []string{MealBreakfast, MealLunch, MealSnacks, MealDinner}
}

// Token is a single-use credential for one meal on one date. After creation
// the only permitted mutation is the redemption transition (is_used, used_at,
// used_by), and that happens exactly once.
type Token struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	UserID      string     `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_tokens_user_meal_date"`
	CollegeName string     `json:"college_name" gorm:"size:255;not null;index"`
	MealType    string     `json:"meal_type" gorm:"size:16;not null;uniqueIndex:idx_tokens_user_meal_date"`
	MealDate    string     `json:"meal_date" gorm:"size:10;not null;uniqueIndex:idx_tokens_user_meal_date;index"`
	TokenCode   string     `json:"token_code" gorm:"uniqueIndex;size:64;not null"`
	QRCodeData  string     `json:"qr_code_data" gorm:"size:500"`
	IsUsed      bool       `json:"is_used" gorm:"not null;default:false"`
	UsedAt      *time.Time `json:"used_at"`
	UsedBy      string     `json:"used_by,omitempty" gorm:"size:255"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Token) TableName() string {
	return "tokens"
}

// qrPayload is serialized into Token.QRCodeData for the scanning client.
// This service never parses it back.
type qrPayload struct {
	TokenCode   string    `json:"tokenCode"`
	UserID      string    `json:"userId"`
	MealType    string    `json:"mealType"`
	MealDate    string    `json:"mealDate"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type Stats struct {
	Total  int64 `json:"total"`
	Used   int64 `json:"used"`
	Unused int64 `json:"unused"`
}

// RedemptionResult carries the redeemed token plus its meal type so the
// caller can bump local counters without an immediate re-query.
type RedemptionResult struct {
	Token    Token  `json:"token"`
	MealType string `json:"meal_type"`
}
