package entities

import "time"

type AccessToken struct {
	ID        int64
	Provider  Provider
	Token     string
	CreatedAt time.Time
	ExpiresIn time.Duration
}

func (t *AccessToken) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.ExpiresIn)
}

func (t *AccessToken) Valid(now time.Time) bool {
	return t != nil && t.Token != "" && now.Before(t.ExpiresAt())
}
