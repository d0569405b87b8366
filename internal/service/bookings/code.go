package bookings

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

var alphabetSize = big.NewInt(int64(len(domain.BookingCodeAlphabet)))

// newCode генерирует случайный код бронирования из алфавита A-Z0-9
func newCode() (string, error) {
	code := make([]byte, domain.BookingCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		code[i] = domain.BookingCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// generateCode подбирает код, которого еще нет в хранилище
func (e *Engine) generateCode(ctx context.Context, attempts int) (string, error) {
	for i := 0; i < attempts; i++ {
		code, err := newCode()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCodeGeneration, err)
		}

		exists, err := e.bookings.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		e.logger.Warn("generateCode: code collision on attempt %d", i+1)
	}
	return "", fmt.Errorf("%w: %d attempts exhausted", ErrCodeGeneration, attempts)
}
