package owm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound - провайдер не знает такого города (HTTP 404)
	ErrNotFound = errors.New("city not found")
	// ErrRequestFailed - любой другой неуспешный ответ или сбой транспорта
	ErrRequestFailed = errors.New("request failed")
)

// Сообщения для пользователя
const (
	MsgNotFound       = "Город не найден"
	MsgCurrentFailed  = "Ошибка при получении данных о погоде"
	MsgForecastFailed = "Ошибка при получении прогноза"
	MsgHourlyFailed   = "Ошибка при получении почасового прогноза"
)

// Error - ошибка обращения к OpenWeatherMap.
// errors.Is(err, ErrNotFound) / errors.Is(err, ErrRequestFailed) определяют вид ошибки.
type Error struct {
	Kind    error
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("owm %s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage возвращает сообщение об ошибке для пользователя
// или пустую строку, если ошибка пришла не от клиента.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
