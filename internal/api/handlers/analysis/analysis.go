package analysis

import (
	"net/http"

	"expense_tracker/internal/api/handlers"
	"expense_tracker/internal/services"
	"expense_tracker/pkg/utils"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	analysis *services.AnalysisService
	logger   *logrus.Logger
}

func NewHandler(analysis *services.AnalysisService, logger *logrus.Logger) *Handler {
	return &Handler{analysis: analysis, logger: logger}
}

// AnalysisHandler totals the caller's expenses per category for
// /analysis/{time_period}.
func (h *Handler) AnalysisHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	resp, err := h.analysis.Analyze(r.Context(), user.ID, r.PathValue("time_period"))
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
