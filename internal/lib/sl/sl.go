// Package sl содержит вспомогательные функции для структурированного логирования через slog:
// единый ключ для ошибок и вывод денежных сумм без потери точности.
package sl

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Для nil возвращает пустую строку, чтобы логирование не паниковало.
//
//	log.Error("failed to create payment", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Amount возвращает сумму как строку с двумя знаками после запятой.
func Amount(key string, amount decimal.Decimal) slog.Attr {
	return slog.String(key, amount.StringFixed(2))
}
