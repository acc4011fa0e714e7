package app

import (
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
)

// TokenServiceConfig converts AuthConfig into the parameters expected by the token service.
// The secret is decoded so hex and base64 keys sign with their raw bytes.
func (c AuthConfig) TokenServiceConfig() (auth.TokenConfig, error) {
	key, err := DecodeKey(c.JWT.Secret)
	if err != nil {
		return auth.TokenConfig{}, err
	}

	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}
	refreshTTL := c.JWT.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = auth.DefaultRefreshTokenTTL
	}

	return auth.TokenConfig{
		Secret:          string(key),
		Issuer:          c.JWT.Issuer,
		AccessTokenTTL:  ttl,
		RefreshTokenTTL: refreshTTL,
	}, nil
}
