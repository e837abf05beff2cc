package uber

import (
	"context"
	"net/http"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/gateway/http/provider"
)

type Issuer struct {
	httpClient *http.Client
	request    provider.TokenRequest
}

func NewIssuer(httpClient *http.Client, tokenURL, clientID, clientSecret, scope string) *Issuer {
	return &Issuer{
		httpClient: httpClient,
		request: provider.TokenRequest{
			URL:          tokenURL,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scope:        scope,
		},
	}
}

func (i *Issuer) IssueToken(ctx context.Context) (*entities.AccessToken, error) {
	tok, err := provider.RequestToken(ctx, i.httpClient, i.request)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &entities.AccessToken{
		Provider:  entities.ProviderUber,
		Token:     tok.AccessToken,
		CreatedAt: now,
		ExpiresIn: provider.TokenTTL(tok, now),
	}, nil
}
