package service

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseID разбирает идентификатор из пути. Всё, что не является целым
// числом > 0, даёт ErrInvalidID; числа за пределами int4 дают ErrIDOutOfRange
// (такой строки заведомо нет, вызывающий отвечает 404).
func ParseID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidID
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return 0, ErrIDOutOfRange
		}
		return 0, ErrInvalidID
	}
	if n <= 0 {
		return 0, ErrInvalidID
	}
	if n > math.MaxInt32 {
		return 0, ErrIDOutOfRange
	}
	return int(n), nil
}
