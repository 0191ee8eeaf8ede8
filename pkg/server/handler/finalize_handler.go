package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/finchapm/finch/pkg/transaction/service"
	"go.uber.org/zap"
)

// FinalizeHandler creates a handler for finalizing one completed transaction.
// @Summary Finalize a completed transaction and dispatch its telemetry.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body FinalizeRequestDTO true "The finished transaction to finalize"
// @Success 202 "Transaction accepted for finalization"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Failure 422 {object} ErrorMessage "Transaction dropped from reporting"
// @Router /v1/transactions/complete [post]
func FinalizeHandler(
	completeService *service.CompleteService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FinalizeRequestDTO
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}

		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logger.Error("Error encountered when closing request body", zap.Error(err))
			}
		}(r.Body)

		if req.RootContextID == "" {
			HttpError(w, "root_context_id is required", http.StatusBadRequest, logger)
			return
		}

		tx := mapFinalizeRequestDTOToModel(req)
		if err := completeService.Complete(tx); err != nil {
			if errors.Is(err, service.ErrMissingRequiredField) {
				HttpError(w, "Transaction dropped from reporting", http.StatusUnprocessableEntity, logger)
				return
			}
			logger.Error("Error encountered when finalizing transaction", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

type ErrorMessage struct {
	Message string `json:"message"`
}

func HttpError(w http.ResponseWriter, message string, code int, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorMessage{Message: message}); err != nil {
		logger.Error("Error encountered when encoding error message", zap.Error(err))
	}
}
