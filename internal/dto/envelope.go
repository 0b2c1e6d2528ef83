package dto

import "time"

// Envelope - единый формат ответа API: {success, message, data}.
type Envelope struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Operation completed successfully."`
	Data    any    `json:"data"`
}

func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func Fail(message string, data any) Envelope {
	return Envelope{Success: false, Message: message, Data: data}
}

// ErrorResponse - описание ошибочного ответа для swagger (data всегда null,
// кроме ошибок валидации регистрации).
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"An unexpected error occurred."`
	Data    any    `json:"data"`
}

const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// ISOTime форматирует время в UTC с миллисекундами: 2024-05-01T10:00:00.000Z.
func ISOTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
