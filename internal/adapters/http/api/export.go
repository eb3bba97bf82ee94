package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/okian/combine/internal/domain/types"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	rankingSheet    = "Top Performers"
)

// ExportHandler serves spreadsheet downloads of the filtered ranking.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleTopXLSX handles GET /api/export/top.xlsx requests. It accepts the
// same parameters as /api/top.
func (h *ExportHandler) HandleTopXLSX(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	ranking, err := h.deps.Top(r.Context(), q)
	if err != nil {
		fail(w, r, op, err)
		return
	}

	var buf bytes.Buffer
	if err := WriteRankingXLSX(&buf, ranking); err != nil {
		fail(w, r, op, WrapKind(op, ErrRender, err))
		return
	}
	name := fmt.Sprintf("top_%s_%s.xlsx", ranking.Metric, ranking.Position)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// WriteRankingXLSX writes ranking as a single-sheet workbook.
func WriteRankingXLSX(w io.Writer, ranking types.Ranking) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", rankingSheet); err != nil {
		return err
	}

	headers := []string{"Rank", "Player", "Position", "School", "Year", ranking.Label, "Weight"}
	widths := []float64{8, 26, 10, 24, 8, 16, 10}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(rankingSheet, cell, header); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(rankingSheet, col, col, widths[i]); err != nil {
			return err
		}
	}

	for i, p := range ranking.Performers {
		row := []any{p.Rank, p.Player, p.Position, p.Institution, nil, p.Value, nil}
		if p.Year > 0 {
			row[4] = p.Year
		}
		if p.Weight != nil {
			row[6] = *p.Weight
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(rankingSheet, cell, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
