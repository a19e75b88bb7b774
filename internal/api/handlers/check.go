package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hoanghai1803/llmchecker/internal/checker"
)

// TriggerCheck handles POST /api/v1/check/trigger. By default the cycle runs
// in the background and the response is 202. With ?wait=true the request
// blocks until the cycle ends and returns its summary. Either way a request
// that arrives while a cycle is running gets 409 and changes nothing.
func TriggerCheck(chk *checker.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))

		if !wait {
			if !chk.Trigger(r.Context()) {
				writeError(w, http.StatusConflict, checker.ErrBusy.Error())
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
			return
		}

		res := chk.RunCycle(r.Context())
		if !res.Started {
			writeError(w, http.StatusConflict, checker.ErrBusy.Error())
			return
		}
		if res.Err != nil {
			slog.Warn("requested cycle failed", "error", res.Err)
		}
		writeJSON(w, http.StatusOK, res.Summary)
	}
}
