package signin

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Dispatcher sends a one-time code to a mobile number and reports the code
// that was sent.
type Dispatcher interface {
	Dispatch(ctx context.Context, mobile string) (Code, error)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, mobile string) (Code, error)

func (f DispatcherFunc) Dispatch(ctx context.Context, mobile string) (Code, error) {
	return f(ctx, mobile)
}

// MockDispatcher waits for Delay and then generates a code locally. Nothing
// is sent anywhere.
type MockDispatcher struct {
	Delay time.Duration
}

func NewMockDispatcher(delay time.Duration) *MockDispatcher {
	return &MockDispatcher{Delay: delay}
}

func (m *MockDispatcher) Dispatch(ctx context.Context, _ string) (Code, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return GenerateCode()
}

// GenerateCode returns a code drawn uniformly from [100000, 999999].
func GenerateCode() (Code, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return Code(fmt.Sprintf("%06d", n.Int64()+codeMin)), nil
}
