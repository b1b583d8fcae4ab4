// Package http contains the chi handlers of the REST API.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "visatrack/internal/errors"
	"visatrack/internal/services"
	"visatrack/pkg/contracts/domain"
)

// BulletinHandler serves bulletin records and cutoff-date series.
type BulletinHandler struct {
	service      BulletinServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewBulletinHandler creates a bulletin handler.
func NewBulletinHandler(service BulletinServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *BulletinHandler {
	return &BulletinHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "bulletin_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the bulletin routes.
func (h *BulletinHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/records/{year}/{month}", h.GetRecords)
	r.Get("/series/{category}", h.GetSeries)
	r.Post("/backfill/{year}", h.PostBackfill)

	return r
}

// seriesParams is the validated input of GET /series/{category}.
type seriesParams struct {
	Category string `validate:"required,oneof=EB-1 EB-2 EB-3 EB-4"`
	Year     int    `validate:"required,gte=2000,lte=2100"`
}

// GetRecords handles GET /records/{year}/{month}: the normalized cutoff
// table of one monthly bulletin.
func (h *BulletinHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	period, ok := h.periodParam(w, r)
	if !ok {
		return
	}

	records, err := h.service.Records(r.Context(), period)
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			h.errorHandler.HandleError(w, r, apierrors.NoDataForPeriod(period.Label()))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"period": period.Label(),
		"data":   records,
		"count":  len(records),
	})
}

// GetSeries handles GET /series/{category}?year=YYYY: one category's
// cutoff-date series across the year's published bulletins, in period order.
func (h *BulletinHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	params := seriesParams{
		Category: chi.URLParam(r, "category"),
		Year:     time.Now().Year(),
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "year must be an integer"))
			return
		}
		params.Year = year
	}

	if err := h.validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(verrs[0].Field(), "invalid value"))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	points, err := h.service.Series(r.Context(), domain.Category(params.Category), domain.PeriodsForYear(params.Year))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"category": params.Category,
		"year":     params.Year,
		"data":     points,
		"count":    len(points),
	})
}

// PostBackfill handles POST /backfill/{year}: extracts the whole year and
// returns per-period record counts. Progress is streamed over /ws.
func (h *BulletinHandler) PostBackfill(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 2000 || year > 2100 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "year must be between 2000 and 2100"))
		return
	}

	extracted, err := h.service.Backfill(r.Context(), domain.PeriodsForYear(year))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary := make([]map[string]interface{}, 0, len(extracted))
	for _, pr := range extracted {
		summary = append(summary, map[string]interface{}{
			"period":  pr.Period.Label(),
			"records": len(pr.Records),
		})
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"year":   year,
		"data":   summary,
		"count":  len(extracted),
	})
}

// periodParam parses and validates the {year}/{month} URL parameters.
func (h *BulletinHandler) periodParam(w http.ResponseWriter, r *http.Request) (domain.Period, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 2000 || year > 2100 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "year must be between 2000 and 2100"))
		return domain.Period{}, false
	}

	monthName := chi.URLParam(r, "month")
	month, ok := parseMonth(monthName)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("month", "month must be a full month name, e.g. June"))
		return domain.Period{}, false
	}

	return domain.Period{Month: month, Year: year}, true
}

// parseMonth maps a full month name to its time.Month.
func parseMonth(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}
