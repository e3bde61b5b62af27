package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// checkResponse is the JSON shape of a single probe in Handler output.
type checkResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// healthResponse is the JSON shape of Handler output.
type healthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Checks    map[string]checkResponse `json:"checks,omitempty"`
}

// Handler returns an HTTP handler reporting every probe's result. It
// answers 200 while the registries are healthy or degraded and 503 when
// any is unhealthy.
func Handler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		results := agg.CheckAll(ctx)
		overall := agg.Overall(results)

		resp := healthResponse{
			Status:    overall.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]checkResponse, len(results)),
		}
		for name, result := range results {
			check := checkResponse{
				Status:  result.Status.String(),
				Message: result.Message,
			}
			if result.Latency > 0 {
				check.Latency = result.Latency.String()
			}
			if result.Err != nil {
				check.Error = result.Err.Error()
			}
			resp.Checks[name] = check
		}

		w.Header().Set("Content-Type", "application/json")
		if overall == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
