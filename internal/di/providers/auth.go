package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookclub/bookclub-server/internal/auth"
	"github.com/bookclub/bookclub-server/internal/config"
	"github.com/bookclub/bookclub-server/internal/logger"
)

// AuthKey wraps the cookie token key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the cookie token key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}

	log.Info("Cookie key loaded",
		"session_ttl", cfg.Session.TTL,
		"device_ttl", cfg.Session.DeviceTTL,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO cookie token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	authKey := do.MustInvoke[AuthKey](i)
	return auth.NewTokenService([]byte(authKey))
}

// ProvidePasswords provides the password sealing policy.
func ProvidePasswords(i do.Injector) (auth.Passwords, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewPasswords(cfg.Auth.HashPasswords), nil
}
