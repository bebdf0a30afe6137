// Package sl содержит вспомогательные функции для структурированного логирования через slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to write premium status", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret маскирует чувствительное значение (токены, ключи API) для вывода в лог.
// Первые четыре символа сохраняются, остальное заменяется на "...".
func Secret(key, value string) slog.Attr {
	masked := "..."
	if len(value) > 4 {
		masked = value[:4] + "..."
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}
