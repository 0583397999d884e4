// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
)

// exportFileName is the attachment name for the leaderboard download.
const exportFileName = "xparky_points.csv"

// ExportHandler streams the leaderboard as a CSV attachment.
type ExportHandler struct {
	deps LeaderboardDependencies
}

// NewExportHandler creates a new CSV export handler.
func NewExportHandler(deps LeaderboardDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExportCSV handles GET /leaderboard.csv?q= requests.
func (h *ExportHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rows, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	rows = filterRows(rows, r.URL.Query().Get("q"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFileName+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Student Number", "First Name", "Last Name", "XParky Points"})
	for _, row := range rows {
		_ = cw.Write([]string{
			row.StudentNumber,
			row.FirstName,
			row.LastName,
			strconv.Itoa(row.Points),
		})
	}
	cw.Flush()
}
