package state

import "strings"

// Row is one loosely typed record from a tabular source, keyed by column name.
type Row map[string]string

const (
	SourceMenu     = "menu"
	SourceSchedule = "schedule"

	FieldName      = "name"
	FieldPrice     = "price"
	FieldQuantity  = "quantity"
	FieldDay       = "day"
	FieldOpenTime  = "open_time"
	FieldCloseTime = "close_time"
)

// Get returns the trimmed value of a column; blank values count as missing.
func (r Row) Get(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
