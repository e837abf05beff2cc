package token_bucket

import (
	"context"
	"sync"
	"time"
)

/*
по сути алгоритм простой, реализовываем Allow метод который возвращает true/false,
то есть - мы либо принимаем запрос, либо отклоняем.
Wait нужен исходящим вызовам: ждем токен вместо отказа.
*/

type Limiter interface {
	Allow() bool
}

type TokenBucket struct {
	capacity   float64
	tokens     float64
	refillRate float64
	lastRefill time.Time
	mu         sync.Mutex
}

func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (t *TokenBucket) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill(time.Now())

	if t.tokens >= 1 {
		t.tokens--
		return true
	}
	return false
}

// Wait блокируется до появления токена или отмены контекста.
func (t *TokenBucket) Wait(ctx context.Context) error {
	for {
		delay, ok := t.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (t *TokenBucket) reserve() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill(time.Now())
	if t.tokens >= 1 {
		t.tokens--
		return 0, true
	}
	if t.refillRate <= 0 {
		// пополнения нет, ждать бессмысленно - проверяем раз в секунду до отмены
		return time.Second, false
	}

	missing := 1 - t.tokens
	return time.Duration(missing / t.refillRate * float64(time.Second)), false
}

func (t *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(t.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	t.tokens += elapsed * t.refillRate
	if t.tokens > t.capacity {
		t.tokens = t.capacity
	}
	t.lastRefill = now
}
