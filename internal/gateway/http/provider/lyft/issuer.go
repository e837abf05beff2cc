package lyft

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dispatch/internal/entities"
	"dispatch/internal/gateway/http/provider"
)

const defaultTokenTTL = time.Hour

// Issuer токенный эндпоинт Lyft отдает JWT; срок жизни берем из claims exp,
// если expires_in не пришел.
type Issuer struct {
	httpClient *http.Client
	request    provider.TokenRequest
	now        func() time.Time
}

func NewIssuer(httpClient *http.Client, tokenURL, clientID, clientSecret, scope string) *Issuer {
	return &Issuer{
		httpClient: httpClient,
		request: provider.TokenRequest{
			URL:          tokenURL,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scope:        scope,
			BasicAuth:    true,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (i *Issuer) IssueToken(ctx context.Context) (*entities.AccessToken, error) {
	tok, err := provider.RequestToken(ctx, i.httpClient, i.request)
	if err != nil {
		return nil, err
	}

	now := i.now()
	ttl := provider.TokenTTL(tok, now)
	if ttl <= 0 {
		ttl = tokenTTL(tok.AccessToken, now)
	}

	return &entities.AccessToken{
		Provider:  entities.ProviderLyft,
		Token:     tok.AccessToken,
		CreatedAt: now,
		ExpiresIn: ttl,
	}, nil
}

// подпись не проверяем: токен пришел напрямую от эмитента по TLS.
func tokenTTL(token string, now time.Time) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return defaultTokenTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return defaultTokenTTL
	}
	if ttl := exp.Sub(now); ttl > 0 {
		return ttl
	}
	return defaultTokenTTL
}
