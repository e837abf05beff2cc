package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

// expirySkew токен считаем протухшим немного раньше, чтобы не словить 401 на границе.
const expirySkew = 30 * time.Second

// refreshTimeout общий выпуск токена не зависит от отмены первого вызвавшего.
const refreshTimeout = 15 * time.Second

type Service struct {
	repository Repository
	cache      Cache
	issuers    map[entities.Provider]Issuer
	log        handlerLogger
	group      singleflight.Group
	now        func() time.Time
}

func New(
	repository Repository,
	cache Cache,
	issuers map[entities.Provider]Issuer,
	log handlerLogger,
) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		issuers:    issuers,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetToken отдает действующий токен провайдера: кэш, затем база, затем выпуск нового.
func (s *Service) GetToken(ctx context.Context, provider entities.Provider) (string, error) {
	now := s.now().Add(expirySkew)

	cached, err := s.cache.Get(ctx, provider)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		s.log.Warn("token cache get failed",
			logger.NewField("provider", provider),
			logger.NewField("error", err),
		)
	}
	if cached.Valid(now) {
		return cached.Token, nil
	}

	stored, err := s.repository.GetLatest(ctx, provider)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return "", fmt.Errorf("get latest token: %w", err)
	}
	if stored.Valid(now) {
		s.remember(ctx, *stored)
		return stored.Token, nil
	}

	return s.Refresh(ctx, provider)
}

// Refresh выпускает новый токен в обход кэша и базы. Вызывается после 401.
// Параллельные обновления одного провайдера в рамках процесса схлопываются,
// между процессами допускаются дубли: каждая запись новая, побеждает последняя.
func (s *Service) Refresh(ctx context.Context, provider entities.Provider) (string, error) {
	issuer, ok := s.issuers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	v, err, _ := s.group.Do(provider.String(), func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		issued, err := issuer.IssueToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		if issued == nil || issued.Token == "" {
			return nil, ErrEmptyToken
		}

		issued.Provider = provider
		if issued.CreatedAt.IsZero() {
			issued.CreatedAt = s.now()
		}

		created, err := s.repository.Create(ctx, *issued)
		if err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}

		s.log.Info("access token refreshed",
			logger.NewField("provider", provider),
			logger.NewField("expires_at", created.ExpiresAt()),
		)
		s.remember(ctx, *created)
		return created.Token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate сбрасывает горячий кэш провайдера.
func (s *Service) Invalidate(ctx context.Context, provider entities.Provider) {
	if err := s.cache.Delete(ctx, provider); err != nil {
		s.log.Warn("token cache delete failed",
			logger.NewField("provider", provider),
			logger.NewField("error", err),
		)
	}
}

func (s *Service) remember(ctx context.Context, token entities.AccessToken) {
	ttl := token.ExpiresAt().Sub(s.now()) - expirySkew
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, token, ttl); err != nil {
		s.log.Warn("token cache set failed",
			logger.NewField("provider", token.Provider),
			logger.NewField("error", err),
		)
	}
}
