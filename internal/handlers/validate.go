package handlers

import (
	"strconv"

	"github.com/Werneck0live/simulador-tributario/internal/models"
)

// parseYear lê o {ano} da rota; o intervalo é checado pelo motor.
func parseYear(raw string) (int, error) {
	ano, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.ValidationError{Field: "ano", Reason: "must be an integer year", Err: models.ErrYearOutOfRange}
	}
	return ano, nil
}
