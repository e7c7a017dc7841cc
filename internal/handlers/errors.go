package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Werneck0live/simulador-tributario/internal/models"
	"github.com/Werneck0live/simulador-tributario/internal/utils"
)

// writeError: validação → 400, CNAE sem anexo → 422, o resto → 500.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var ve *models.ValidationError
	var ce *models.ClassificationError
	switch {
	case errors.As(err, &ve):
		utils.WriteError(w, http.StatusBadRequest, ve.Reason, ve.Field)
	case errors.As(err, &ce):
		utils.WriteError(w, http.StatusUnprocessableEntity, ce.Error(), "atividades.cnae")
	default:
		log.Error("simulation_error", "err", err)
		utils.WriteError(w, http.StatusInternalServerError, "internal error", "")
	}
}
