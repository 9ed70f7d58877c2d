package dashboard

import (
	"rentdash/internal/listview"
	"rentdash/internal/models"
)

// Badge classes for the status column. Unlisted statuses fall back to the
// muted badge so a new upstream status never breaks rendering.
var statusBadges = map[string]string{
	models.StatusPending:   "badge-warning",
	models.StatusConfirmed: "badge-info",
	models.StatusOngoing:   "badge-info",
	models.StatusCompleted: "badge-success",
	models.StatusCancelled: "badge-danger",
	models.StatusRefunded:  "badge-secondary",
}

const badgeDefault = "badge-muted"

func badgeClass(status string) string {
	if class, ok := statusBadges[status]; ok {
		return class
	}
	return badgeDefault
}

// TableRow is one rendered row: the continuous row number, the status badge
// class and the record itself.
type TableRow struct {
	Number int    `json:"number"`
	Badge  string `json:"badge,omitempty"`
	Record any    `json:"record"`
}

// TableResponse is the list endpoint payload.
type TableResponse struct {
	Rows       []TableRow        `json:"rows"`
	Pagination models.Pagination `json:"pagination"`
	Mode       string            `json:"mode"`
}

// tableResponse numbers the rows continuously across pages and attaches the
// badge class derived by status.
func tableResponse[T any](snap listview.Snapshot[T], status func(T) string) TableResponse {
	rows := make([]TableRow, 0, len(snap.Rows))
	for i, record := range snap.Rows {
		row := TableRow{
			Number: snap.Pagination.RowNumber(i),
			Record: record,
		}
		if status != nil {
			row.Badge = badgeClass(status(record))
		}
		rows = append(rows, row)
	}
	return TableResponse{
		Rows:       rows,
		Pagination: snap.Pagination,
		Mode:       string(snap.Mode),
	}
}
