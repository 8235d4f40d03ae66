package identity

import (
	"errors"
	"fmt"

	"github.com/messmate/messmate/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultCollege is the tenant assigned to identities without a profile row.
const DefaultCollege = "default"

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

// Lookup resolves an authenticated user ID into a full Identity. Missing
// profile or role rows fall back to defaults rather than failing; the auth
// collaborator already vouched for the user.
func (s *Service) Lookup(userID string) (Identity, error) {
	ident := Identity{
		UserID:      userID,
		FullName:    "User",
		CollegeName: DefaultCollege,
		Role:        RoleStudent,
	}

	var profile UserProfile
	err := s.db.Where("id = ?", userID).First(&profile).Error
	switch {
	case err == nil:
		if profile.FullName != "" {
			ident.FullName = profile.FullName
		}
		if profile.CollegeName != "" {
			ident.CollegeName = profile.CollegeName
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if s.logger != nil {
			s.logger.Debug("no profile for user, using defaults",
				zap.String("user_id", userID))
		}
	default:
		return Identity{}, fmt.Errorf("failed to load profile: %w", err)
	}

	var role UserRole
	err = s.db.Where("user_id = ?", userID).First(&role).Error
	switch {
	case err == nil:
		if Role(role.Role) == RoleAdmin {
			ident.Role = RoleAdmin
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no role row means student
	default:
		return Identity{}, fmt.Errorf("failed to load role: %w", err)
	}

	return ident, nil
}
