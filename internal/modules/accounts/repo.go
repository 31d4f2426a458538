package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"
)

var ErrAddressNotFound = apperr.NotFoundErr("ADDRESS_NOT_FOUND", "Delivery address not found.")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// AddressOf loads an address owned by userID. Someone else's address is
// reported as not found.
func AddressOf(ctx context.Context, tx *gorm.DB, userID, addressID string) (Address, error) {
	var a Address
	err := tx.WithContext(ctx).First(&a, "id = ? AND user_id = ?", addressID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Address{}, ErrAddressNotFound
	}
	return a, err
}

// PushToken returns "" when the user has none.
func (r *Repo) PushToken(ctx context.Context, userID string) (string, error) {
	var u User
	err := r.db.WithContext(ctx).Select("id", "fcm_token").First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if u.FCMToken == nil {
		return "", nil
	}
	return strings.TrimSpace(*u.FCMToken), nil
}

// ClearPushToken drops a token the gateway reported dead. It only clears when
// the stored token still matches, so a freshly registered one survives.
func (r *Repo) ClearPushToken(ctx context.Context, userID, token string) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ? AND fcm_token = ?", userID, token).
		Updates(map[string]any{"fcm_token": nil, "updated_at": time.Now().UTC()}).Error
}

func (r *Repo) EmailOf(ctx context.Context, userID string) (string, error) {
	var u User
	err := r.db.WithContext(ctx).Select("id", "email").First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if u.Email == nil {
		return "", nil
	}
	return strings.TrimSpace(*u.Email), nil
}
