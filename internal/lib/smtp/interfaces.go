// Package smtp реализует транспорт писем-подтверждений премиум-доступа.
// Воркер уведомлений отправляет через него письмо после события
// entitlements.granted. Сетевые типы net/smtp спрятаны за интерфейсами,
// чтобы тесты сервиса отправки не открывали соединений.
package smtp

import "io"

// Client — подмножество методов *smtp.Client, которым пользуется отправка
// одного письма: конверт (Mail/Rcpt), тело (Data) и завершение сессии.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface выдаёт подключённый SMTP-клиент и адрес отправителя.
// Реализуется Transport; в тестах подменяется моком.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
