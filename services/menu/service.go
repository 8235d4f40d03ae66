package menu

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
	ErrUnauthorized = errors.New("authenticated identity required")
	ErrForbidden    = errors.New("admin role required")
	ErrInvalidDate  = errors.New("invalid meal date")
	ErrMenuNotFound = errors.New("no menu published for this date")
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

// Upsert publishes the day's menu for the caller's tenant, replacing all
// four fields at once.
func (s *Service) Upsert(ident identity.Identity, mealDate, breakfast, lunch, snacks, dinner string) (*DailyMenu, error) {
	if ident.IsZero() {
		return nil, ErrUnauthorized
	}
	if !ident.IsAdmin() {
		return nil, ErrForbidden
	}

	mealDate, err := normalizeDate(mealDate)
	if err != nil {
		return nil, err
	}

	menu := &DailyMenu{
		ID:          uuid.New().String(),
		MealDate:    mealDate,
		CollegeName: ident.CollegeName,
		Breakfast:   strings.TrimSpace(breakfast),
		Lunch:       strings.TrimSpace(lunch),
		Snacks:      strings.TrimSpace(snacks),
		Dinner:      strings.TrimSpace(dinner),
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "meal_date"}, {Name: "college_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"breakfast", "lunch", "snacks", "dinner", "updated_at",
		}),
	}).Create(menu).Error
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to upsert menu", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to upsert menu: %w", err)
	}

	var stored DailyMenu
	err = s.db.Where("meal_date = ? AND college_name = ?", mealDate, ident.CollegeName).First(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload menu: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("menu published",
			zap.String("meal_date", mealDate),
			zap.String("college", ident.CollegeName))
	}

	return &stored, nil
}

// Get returns the published menu for a date within the caller's tenant.
func (s *Service) Get(ident identity.Identity, mealDate string) (*DailyMenu, error) {
	if ident.IsZero() {
		return nil, ErrUnauthorized
	}

	mealDate, err := normalizeDate(mealDate)
	if err != nil {
		return nil, err
	}

	var menu DailyMenu
	err = s.db.Where("meal_date = ? AND college_name = ?", mealDate, ident.CollegeName).First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}

	return &menu, nil
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
