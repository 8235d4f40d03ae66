package token

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/messmate/messmate/config"
	"github.com/messmate/messmate/services/identity"
	"github.com/messmate/messmate/services/logging"
	"github.com/mileusna/useragent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized     = errors.New("authenticated identity required")
	ErrInvalidMealType  = errors.New("invalid meal type")
	ErrInvalidDate      = errors.New("invalid meal date")
	ErrInvalidTokenCode = errors.New("token code required")
	ErrTokenExists      = errors.New("token already exists for this meal")
	ErrTokenNotFound    = errors.New("token not found or expired")
	ErrTokenAlreadyUsed = errors.New("token already used")
	ErrCodeGeneration   = errors.New("failed to generate unique token code")
)

type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logging.Service
}

func NewService(db *gorm.DB, cfg *config.Config, logger *logging.Service) *Service {
	if logger != nil {
		logger.Info("initializing token service",
			zap.String("code_prefix", cfg.Token.CodePrefix),
			zap.Int("code_suffix_length", cfg.Token.CodeSuffixLength),
			zap.Int("insert_retries", cfg.Token.InsertRetries))
	}

	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// Issue creates one token per (user, meal type, meal date). There is no
// existence pre-check: the insert itself is the uniqueness check, so two
// concurrent calls can never both succeed. When the per-user constraint
// fires, the existing token is returned alongside ErrTokenExists so callers
// can surface its code. A collision on the token code itself is retried with
// a fresh code.
func (s *Service) Issue(ident identity.Identity, mealType, mealDate string) (*Token, error) {
	if ident.IsZero() {
		return nil, ErrUnauthorized
	}

	mealType = strings.ToLower(strings.TrimSpace(mealType))
	if !ValidMealType(mealType) {
		return nil, ErrInvalidMealType
	}

	mealDate, err := normalizeDate(mealDate)
	if err != nil {
		return nil, err
	}

	retries := s.config.Token.InsertRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; attempt < retries; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate token code: %w", err)
		}

		now := time.Now()
		qrData, err := json.Marshal(qrPayload{
			TokenCode:   code,
			UserID:      ident.UserID,
			MealType:    mealType,
			MealDate:    mealDate,
			GeneratedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build qr payload: %w", err)
		}

		tok := &Token{
			ID:          uuid.New().String(),
			UserID:      ident.UserID,
			CollegeName: ident.CollegeName,
			MealType:    mealType,
			MealDate:    mealDate,
			TokenCode:   code,
			QRCodeData:  string(qrData),
			IsUsed:      false,
			CreatedAt:   now,
		}

		err = s.db.Create(tok).Error
		if err == nil {
			if s.logger != nil {
				s.logger.Info("token issued",
					zap.String("token_code", code),
					zap.String("user_id", ident.UserID),
					zap.String("meal_type", mealType),
					zap.String("meal_date", mealDate))
			}
			return tok, nil
		}

		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			if s.logger != nil {
				s.logger.Error("failed to store token", zap.Error(err))
			}
			return nil, fmt.Errorf("failed to store token: %w", err)
		}

		// The duplicate is either the per-user constraint or the token code
		// index. Only a lookup can tell them apart.
		var existing Token
		lookupErr := s.db.
			Where("user_id = ? AND meal_type = ? AND meal_date = ?", ident.UserID, mealType, mealDate).
			First(&existing).Error
		if lookupErr == nil {
			if s.logger != nil {
				s.logger.Warn("duplicate token issuance rejected",
					zap.String("user_id", ident.UserID),
					zap.String("meal_type", mealType),
					zap.String("meal_date", mealDate),
					zap.String("existing_code", existing.TokenCode))
			}
			return &existing, ErrTokenExists
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up existing token: %w", lookupErr)
		}
		// token code collision, try again with a new code
	}

	return nil, ErrCodeGeneration
}

// Redeem marks a token used. The lookup and the state transition are a
// single conditional UPDATE on is_used=false, so two concurrent redemptions
// of the same code cannot both succeed.
func (s *Service) Redeem(ident identity.Identity, tokenCode, mealDate, userAgent string) (*RedemptionResult, error) {
	if ident.IsZero() {
		return nil, ErrUnauthorized
	}

	tokenCode = strings.TrimSpace(tokenCode)
	if tokenCode == "" {
		return nil, ErrInvalidTokenCode
	}

	mealDate, err := normalizeDate(mealDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.db.Model(&Token{}).
		Where("token_code = ? AND meal_date = ? AND college_name = ? AND is_used = ?",
			tokenCode, mealDate, ident.CollegeName, false).
		Updates(map[string]any{
			"is_used": true,
			"used_at": now,
			"used_by": deviceSummary(userAgent),
		})

	if result.Error != nil {
		if s.logger != nil {
			s.logger.Error("redemption update failed", zap.Error(result.Error))
		}
		return nil, fmt.Errorf("failed to redeem token: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Either the token does not exist for this date/tenant (a token for a
		// different date never matches, which is how expiry works) or it was
		// already redeemed.
		var existing Token
		err := s.db.
			Where("token_code = ? AND meal_date = ? AND college_name = ?", tokenCode, mealDate, ident.CollegeName).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up token: %w", err)
		}
		if s.logger != nil {
			s.logger.Warn("replayed redemption rejected",
				zap.String("token_code", tokenCode),
				zap.Timep("used_at", existing.UsedAt))
		}
		return nil, ErrTokenAlreadyUsed
	}

	var redeemed Token
	if err := s.db.Where("token_code = ?", tokenCode).First(&redeemed).Error; err != nil {
		return nil, fmt.Errorf("failed to reload redeemed token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("token redeemed",
			zap.String("token_code", tokenCode),
			zap.String("meal_type", redeemed.MealType),
			zap.String("meal_date", mealDate))
	}

	return &RedemptionResult{
		Token:    redeemed,
		MealType: redeemed.MealType,
	}, nil
}

// Latest returns the caller's newest token for a date.
func (s *Service) Latest(ident identity.Identity, mealDate string) (*Token, error) {
	if ident.IsZero() {
		return nil, ErrUnauthorized
	}

	mealDate, err := normalizeDate(mealDate)
	if err != nil {
		return nil, err
	}

	var tok Token
	err = s.db.
		Where("user_id = ? AND meal_date = ?", ident.UserID, mealDate).
		Order("created_at DESC").
		First(&tok).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest token: %w", err)
	}

	return &tok, nil
}

// Stats counts tokens for one date within the caller's tenant.
func (s *Service) Stats(ident identity.Identity, mealDate string) (*Stats, error) {
	if ident.IsZero() {
		return nil, ErrUnauthorized
	}

	mealDate, err := normalizeDate(mealDate)
	if err != nil {
		return nil, err
	}

	var total int64
	err = s.db.Model(&Token{}).
		Where("meal_date = ? AND college_name = ?", mealDate, ident.CollegeName).
		Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	var used int64
	err = s.db.Model(&Token{}).
		Where("meal_date = ? AND college_name = ? AND is_used = ?", mealDate, ident.CollegeName, true).
		Count(&used).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count used tokens: %w", err)
	}

	return &Stats{
		Total:  total,
		Used:   used,
		Unused: total - used,
	}, nil
}

// Breakdown returns per-meal-type token counts for one date within the
// caller's tenant, counting both used and unused tokens.
func (s *Service) Breakdown(ident identity.Identity, mealDate string) (map[string]int64, error) {
	if ident.IsZero() {
		return nil, ErrUnauthorized
	}

	mealDate, err := normalizeDate(mealDate)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		MealType string
		Count    int64
	}
	err = s.db.Model(&Token{}).
		Select("meal_type, COUNT(*) AS count").
		Where("meal_date = ? AND college_name = ?", mealDate, ident.CollegeName).
		Group("meal_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group tokens: %w", err)
	}

	breakdown := make(map[string]int64, len(rows))
	for _, row := range rows {
		breakdown[row.MealType] = row.Count
	}

	return breakdown, nil
}

const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func (s *Service) generateCode() (string, error) {
	length := s.config.Token.CodeSuffixLength
	if length < 1 {
		length = 7
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return fmt.Sprintf("%s-%d-%s", s.config.Token.CodePrefix, time.Now().UnixMilli(), buf), nil
}

func normalizeDate(mealDate string) (string, error) {
	mealDate = strings.TrimSpace(mealDate)
	if mealDate == "" {
		return time.Now().Format(DateLayout), nil
	}

	parsed, err := time.Parse(DateLayout, mealDate)
	if err != nil {
		return "", ErrInvalidDate
	}

	return parsed.Format(DateLayout), nil
}

// deviceSummary condenses the validating terminal's user agent into a short
// audit string stored with the redemption.
func deviceSummary(rawUA string) string {
	if rawUA == "" {
		return ""
	}

	ua := useragent.Parse(rawUA)
	if ua.Name == "" {
		return truncate(rawUA, 255)
	}

	summary := ua.Name
	if ua.Version != "" {
		summary += " " + ua.Version
	}
	if ua.OS != "" {
		summary += " / " + ua.OS
	}

	return truncate(summary, 255)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
