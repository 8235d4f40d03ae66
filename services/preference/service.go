package preference

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/messmate/messmate/services/identity"
	"github.com/messmate/messmate/services/logging"
	"github.com/messmate/messmate/services/token"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUnauthorized    = errors.New("authenticated identity required")
	ErrInvalidMealType = errors.New("invalid meal type")
	ErrInvalidDate     = errors.New("invalid meal date")
)

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

func skipColumn(mealType string) (string, bool) {
	switch mealType {
	case token.MealBreakfast:
		return "skip_breakfast", true
	case token.MealLunch:
		return "skip_lunch", true
	case token.MealSnacks:
		return "skip_snacks", true
	case token.MealDinner:
		return "skip_dinner", true
	}
	return "", false
}

// Set upserts a single skip flag for the caller's date, leaving the other
// three untouched.
func (s *Service) Set(ident identity.Identity, mealDate, mealType string, skip bool) (*MealPreference, error) {
	if ident.IsZero() {
		return nil, ErrUnauthorized
	}

	mealType = strings.ToLower(strings.TrimSpace(mealType))
	column, ok := skipColumn(mealType)
	if !ok {
		return nil, ErrInvalidMealType
	}

	mealDate, err := normalizeDate(mealDate)
	if err != nil {
		return nil, err
	}

	pref := &MealPreference{
		ID:          uuid.New().String(),
		UserID:      ident.UserID,
		MealDate:    mealDate,
		CollegeName: ident.CollegeName,
	}
	switch column {
	case "skip_breakfast":
		pref.SkipBreakfast = skip
	case "skip_lunch":
		pref.SkipLunch = skip
	case "skip_snacks":
		pref.SkipSnacks = skip
	case "skip_dinner":
		pref.SkipDinner = skip
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "meal_date"}},
		DoUpdates: clause.Assignments(map[string]any{column: skip, "updated_at": time.Now()}),
	}).Create(pref).Error
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to upsert meal preference", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to upsert meal preference: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("meal preference updated",
			zap.String("user_id", ident.UserID),
			zap.String("meal_date", mealDate),
			zap.String("meal_type", mealType),
			zap.Bool("skip", skip))
	}

	return s.Get(ident, mealDate)
}

// Get returns the caller's flags for a date. An absent row reads as all
// flags unset, not as an error.
func (s *Service) Get(ident identity.Identity, mealDate string) (*MealPreference, error) {
	if ident.IsZero() {
		return nil, ErrUnauthorized
	}

	mealDate, err := normalizeDate(mealDate)
	if err != nil {
		return nil, err
	}

	var pref MealPreference
	err = s.db.Where("user_id = ? AND meal_date = ?", ident.UserID, mealDate).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &MealPreference{
			UserID:      ident.UserID,
			MealDate:    mealDate,
			CollegeName: ident.CollegeName,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal preference: %w", err)
	}

	return &pref, nil
}

func normalizeDate(mealDate string) (string, error) {
	mealDate = strings.TrimSpace(mealDate)
	if mealDate == "" {
		return time.Now().Format(token.DateLayout), nil
	}

	parsed, err := time.Parse(token.DateLayout, mealDate)
	if err != nil {
		return "", ErrInvalidDate
	}

	return parsed.Format(token.DateLayout), nil
}
