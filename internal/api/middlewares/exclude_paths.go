package middlewares

import (
	"net/http"

	"expense_tracker/pkg/utils"
)

// MiddlewaresExcludePaths applies middleware to every path except the listed ones.
func MiddlewaresExcludePaths(middleware utils.Middleware, excludedPaths ...string) utils.Middleware {
	excluded := make(map[string]struct{}, len(excludedPaths))
	for _, p := range excludedPaths {
		excluded[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		wrapped := middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := excluded[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
