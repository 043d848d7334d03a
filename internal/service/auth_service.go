package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vogiaan1904/ticketbottle-scangate/config"
	pkgLog "github.com/vogiaan1904/ticketbottle-scangate/pkg/logger"
)

// DeviceAuthService issues and verifies the short-lived tokens scanner
// devices authenticate with. Devices exchange the shared provision key
// for a token once, then present it on every scan.
type DeviceAuthService interface {
	IssueDeviceToken(ctx context.Context, deviceID, operator, provisionKey string) (*DeviceTokenOutput, error)
	ValidateDeviceToken(ctx context.Context, token string) (string, error)
}

type deviceAuthService struct {
	conf config.JWTConfig
	l    pkgLog.Logger
}

func NewDeviceAuthService(conf config.JWTConfig, l pkgLog.Logger) DeviceAuthService {
	return &deviceAuthService{
		conf: conf,
		l:    l,
	}
}

func (s *deviceAuthService) IssueDeviceToken(ctx context.Context, deviceID, operator, provisionKey string) (*DeviceTokenOutput, error) {
	if subtle.ConstantTimeCompare([]byte(provisionKey), []byte(s.conf.ProvisionKey)) != 1 {
		s.l.Warnf(ctx, "service.deviceAuthService.IssueDeviceToken: %v", ErrProvisionKeyInvalid)
		return nil, ErrProvisionKeyInvalid
	}

	expAt := time.Now().Add(s.conf.Expiry)
	claims := jwt.MapClaims{
		"device_id": deviceID,
		"operator":  operator,
		"jti":       uuid.New().String(),
		"exp":       expAt.Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(s.conf.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.l.Infof(ctx, "service.deviceAuthService.IssueDeviceToken: issued token for device %s (operator %s)",
		deviceID, operator)

	return &DeviceTokenOutput{
		Token:     tokenStr,
		ExpiresAt: expAt.Unix(),
	}, nil
}

// ValidateDeviceToken returns the device id the token was issued to.
func (s *deviceAuthService) ValidateDeviceToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrTokenInvalid
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(s.conf.Secret), nil
	})
	if err != nil {
		s.l.Warnf(ctx, "service.deviceAuthService.ValidateDeviceToken: %v", err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !parsed.Valid {
		return "", ErrTokenInvalid
	}

	deviceID, ok := claims["device_id"].(string)
	if !ok || deviceID == "" {
		return "", ErrTokenInvalid
	}

	return deviceID, nil
}
