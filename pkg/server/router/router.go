package router

import (
	"net/http"

	"github.com/finchapm/finch/pkg/server/handler"
	"github.com/finchapm/finch/pkg/transaction/service"
	"go.uber.org/zap"
)
import "github.com/gorilla/mux"

func CreateRouter(
	completeService *service.CompleteService,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Handle(
		"/v1/transactions/complete", handler.FinalizeHandler(
			completeService,
			logger,
		),
	).Methods("POST")

	return r
}
