package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"expense_tracker/pkg/utils"
)

// HealthHandler reports whether the database answers a ping.
func HealthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			utils.WriteError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
