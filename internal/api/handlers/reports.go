package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kwhalen/ledgerline/internal/api/dto"
	"github.com/kwhalen/ledgerline/internal/domain/reports"
)

// ReportsHandler handles report-related HTTP requests.
type ReportsHandler struct {
	*Base
	builder *reports.Builder
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(builder *reports.Builder) *ReportsHandler {
	return &ReportsHandler{
		Base:    NewBase(nil),
		builder: builder,
	}
}

// List handles GET /api/reports - returns the report catalog.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	defs := h.builder.Definitions()

	response := dto.ReportDefinitionListResponse{
		Reports: make([]dto.ReportDefinitionResponse, 0, len(defs)),
	}
	for _, d := range defs {
		response.Reports = append(response.Reports, dto.ReportDefinitionResponse{
			Slug:        d.Slug,
			Name:        d.Name,
			Description: d.Description,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/reports/{slug} - builds and returns one report.
// Query parameters year, level, months, and sort override the definition.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if _, ok := h.builder.Definition(slug); !ok {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("report"))
		return
	}

	params := reports.Parameters{
		Slug:      slug,
		Year:      ParseIntParam(r, "year", time.Now().Year()),
		NumLevels: ParseIntParam(r, "level", 0),
	}
	if v := r.URL.Query().Get("months"); v != "" {
		months := v == "true" || v == "1"
		params.WithMonthColumns = &months
	}
	if v := r.URL.Query().Get("sort"); v != "" {
		order, ok := parseSortOrder(v)
		if !ok {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("unknown sort order"))
			return
		}
		params.SortOrder = &order
	}

	report, err := h.builder.Build(params)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, report.ToTable())
}

// parseSortOrder maps the query parameter values onto sort orders.
func parseSortOrder(v string) (reports.SortOrder, bool) {
	switch strings.ToLower(v) {
	case "total-desc":
		return reports.SortByTotalDescending, true
	case "total-asc":
		return reports.SortByTotalAscending, true
	case "name-asc":
		return reports.SortByNameAscending, true
	case "name-desc":
		return reports.SortByNameDescending, true
	}
	return 0, false
}
