package http

import (
	"context"
	"net/http"

	"carfleet/internal/delivery/http/middleware"
	"carfleet/internal/domain"
	"carfleet/internal/pkg/logger"
)

// ReportService определяет интерфейс для сервиса отчетов
type ReportService interface {
	Dashboard(ctx context.Context, actor *domain.User) (*domain.DashboardStats, error)
	Usage(ctx context.Context, actor *domain.User) (*domain.UsageReport, error)
}

// ReportHandler обрабатывает запросы панели и отчетов
type ReportHandler struct {
	reportService ReportService
	logger        logger.Logger
}

// NewReportHandler создает новый handler
func NewReportHandler(reportService ReportService, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// GetStats возвращает сводные показатели панели
// GET /api/admin/stats
func (h *ReportHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.reportService.Dashboard(r.Context(), claims.User())
	if err != nil {
		if err == domain.ErrForbidden {
			respondError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		h.logger.Error("Failed to build dashboard", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stats,
	})
}

// GetUsageReport возвращает отчет об использовании парка
// GET /api/admin/reports
func (h *ReportHandler) GetUsageReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	report, err := h.reportService.Usage(r.Context(), claims.User())
	if err != nil {
		if err == domain.ErrForbidden {
			respondError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		h.logger.Error("Failed to build usage report", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    report,
	})
}
