package otp

import (
	"crypto/subtle"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/higherpolynomia/backend/internal/common"
)

// Generate returns a fresh numeric code of the given length.
func Generate(length int) (string, error) {
	return common.MakeRandDigits(length)
}

// Matches compares a submitted code against the stored one in constant
// time.
func Matches(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// SendLimiter throttles code emails per recipient so a hostile caller
// cannot turn the signup endpoint into a mail cannon. Limiters are held
// in memory per instance; this bounds sends per instance, which is
// enough for abuse control and needs no coordination.
type SendLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHour  int
}

func NewSendLimiter(perHour int) *SendLimiter {
	return &SendLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHour:  perHour,
	}
}

// Allow reports whether another code may be sent to the given email.
func (l *SendLimiter) Allow(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[email]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Hour/time.Duration(l.perHour)), l.perHour)
		l.limiters[email] = lim
	}
	return lim.Allow()
}
