package reports

// Table is the row-major serializable form of a built report, consumed by
// the HTTP layer and the report CLI for JSON and text rendering.
type Table struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Columns     []TableColumn `json:"columns"`
	Rows        []TableRow    `json:"rows"`
	GrandTotal  float64       `json:"grand_total"`
}

// TableColumn carries column metadata in display order.
type TableColumn struct {
	UniqueID         string `json:"id"`
	Name             string `json:"name"`
	IsTotal          bool   `json:"is_total,omitempty"`
	DisplayAsPercent bool   `json:"display_as_percent,omitempty"`
}

// TableRow is one grid row with its values keyed by column UniqueID.
type TableRow struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Level   int                `json:"level"`
	IsTotal bool               `json:"is_total,omitempty"`
	Values  map[string]float64 `json:"values"`
}

// ToTable flattens the report into its serializable form, rows in display
// order.
func (r *Report) ToTable() Table {
	t := Table{
		Name:        r.Name,
		Description: r.Description,
		GrandTotal:  r.GrandTotal(),
	}

	for _, col := range r.columns {
		t.Columns = append(t.Columns, TableColumn{
			UniqueID:         col.UniqueID,
			Name:             col.Name,
			IsTotal:          col.IsTotal,
			DisplayAsPercent: col.DisplayAsPercent,
		})
	}

	for _, row := range r.RowLabelsOrdered() {
		values := make(map[string]float64, len(r.columns))
		for _, col := range r.columns {
			values[col.UniqueID] = r.Value(row.UniqueID, col.UniqueID)
		}
		t.Rows = append(t.Rows, TableRow{
			ID:      row.UniqueID,
			Name:    row.Name,
			Level:   row.Level,
			IsTotal: row.IsTotal,
			Values:  values,
		})
	}

	return t
}
