package activation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localmart/localmart/app/models"
	"github.com/localmart/localmart/internal/pkg/cache"
)

const tokenTTL = 5 * time.Minute
const tokenKeyPrefix = "activation:"

// ErrTokenExpired means the activation token is unknown, already consumed, or
// past its TTL.
var ErrTokenExpired = errors.New("activation token expired or already used")

// TokenStore holds short-lived activation tokens. The production store is the
// shared Redis cache.
type TokenStore interface {
	Put(token string, serial string, ttl time.Duration) error
	Take(token string) (string, error)
}

type cacheStore struct{}

func (cacheStore) Put(token, serial string, ttl time.Duration) error {
	return cache.Set(tokenKeyPrefix+token, serial, ttl)
}

func (cacheStore) Take(token string) (string, error) {
	serial, err := cache.Get(tokenKeyPrefix + token)
	if err != nil {
		return "", ErrTokenExpired
	}
	// Single-use: drop the key as soon as it is read.
	_ = cache.Delete(tokenKeyPrefix + token)
	return serial, nil
}

// Service validates IoT relay devices and runs the token-gated activation
// handshake: validate serial -> temporary token -> one-shot relay activation.
type Service struct {
	db    *gorm.DB
	store TokenStore
	now   func() time.Time
}

// NewService creates an activation service on the given DB handle, storing
// tokens in the shared cache.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, store: cacheStore{}, now: time.Now}
}

// ValidateDevice checks a device serial, marks the device validated, and
// issues a short-lived activation token.
func (s *Service) ValidateDevice(serial string) (*models.Device, string, error) {
	var device models.Device
	if err := s.db.Where("serial = ?", serial).First(&device).Error; err != nil {
		return nil, "", err
	}

	if !device.IsValidated {
		device.IsValidated = true
		if err := s.db.Save(&device).Error; err != nil {
			return nil, "", err
		}
	}

	token := uuid.NewString()
	if err := s.store.Put(token, device.Serial, tokenTTL); err != nil {
		return nil, "", err
	}
	return &device, token, nil
}

// Activate consumes an activation token and fires the device relay, stamping
// last_activated_at. Tokens are single-use.
func (s *Service) Activate(token string) (*models.Device, error) {
	serial, err := s.store.Take(token)
	if err != nil {
		return nil, err
	}

	var device models.Device
	if err := s.db.Where("serial = ?", serial).First(&device).Error; err != nil {
		return nil, err
	}

	now := s.now()
	device.LastActivatedAt = &now
	if err := s.db.Save(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}
