package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type TokenRequest struct {
	URL          string
	ClientID     string
	ClientSecret string
	Scope        string
	// BasicAuth передавать креды заголовком, а не в форме.
	BasicAuth bool
}

func (tr TokenRequest) config() clientcredentials.Config {
	cfg := clientcredentials.Config{
		ClientID:     tr.ClientID,
		ClientSecret: tr.ClientSecret,
		TokenURL:     tr.URL,
		Scopes:       strings.Fields(tr.Scope),
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if tr.BasicAuth {
		cfg.AuthStyle = oauth2.AuthStyleInHeader
	}
	return cfg
}

// RequestToken client_credentials обмен на токенном эндпоинте провайдера.
func RequestToken(ctx context.Context, httpClient *http.Client, tr TokenRequest) (*oauth2.Token, error) {
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	cfg := tr.config()
	tok, err := cfg.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, fmt.Errorf("token endpoint status %d: %s",
				retrieveErr.Response.StatusCode, truncate(string(retrieveErr.Body), maxErrorBody))
		}
		return nil, fmt.Errorf("token request: %w", err)
	}
	return tok, nil
}

// TokenTTL срок жизни из ответа; 0, если эндпоинт его не сообщил.
func TokenTTL(tok *oauth2.Token, now time.Time) time.Duration {
	if tok.ExpiresIn > 0 {
		return time.Duration(tok.ExpiresIn) * time.Second
	}
	if tok.Expiry.IsZero() {
		return 0
	}
	return max(tok.Expiry.Sub(now), 0)
}
