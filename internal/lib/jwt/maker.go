// Package jwt выпускает и проверяет JWT токены пользователей.
//
// Токены выпускает identity-бэкенд, сервис только проверяет подпись HS256
// общим секретом и достаёт из claims идентификатор и почту пользователя.
// GenerateToken нужен для тестов и локальной отладки.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	GenerateToken(userID int, email string) (string, error)
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
