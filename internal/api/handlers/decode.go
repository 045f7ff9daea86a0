package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// DecodeJSON декодирует тело запроса в указанную структуру
// Неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}
