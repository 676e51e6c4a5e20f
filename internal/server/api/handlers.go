package api

import (
	"errors"
	"fmt"
	"net/http"

	"wfs/internal/server/database"
	"wfs/internal/server/service"

	"github.com/labstack/echo/v4"
)

// Handler contains the HTTP handlers for the snapshot API.
type Handler struct {
	svc *service.SnapshotService
	db  *database.DB
}

// NewHandler creates a new handler with the given service dependency.
func NewHandler(svc *service.SnapshotService, db *database.DB) *Handler {
	return &Handler{svc: svc, db: db}
}

// HandleCreate handles POST /api/snapshots.
// Accepts a multipart form with an "archive" field and optional
// "label" and "password" fields.
func (h *Handler) HandleCreate(c echo.Context) error {
	// Read the uploaded archive from the multipart form
	fileHeader, err := c.FormFile("archive")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "archive is required (use form field 'archive')",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to read uploaded archive",
		})
	}
	defer src.Close()

	label := c.FormValue("label")
	password := c.FormValue("password")

	result, err := h.svc.CreateSnapshot(
		c.Request().Context(),
		label,
		src,
		fileHeader.Size,
		password,
	)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

// HandleRestore handles GET /s/:id.
// Serves the snapshot archive as an attachment. Accepts an optional
// "password" query param.
func (h *Handler) HandleRestore(c echo.Context) error {
	id := c.Param("id")
	password := c.QueryParam("password")

	archivePath, label, err := h.svc.Restore(c.Request().Context(), id, password)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Attachment(archivePath, label+".zip")
}

// HandleInfo handles GET /api/snapshots/:id.
// Returns snapshot metadata without serving the archive.
func (h *Handler) HandleInfo(c echo.Context) error {
	id := c.Param("id")

	info, err := h.svc.GetInfo(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, info)
}

// HandleDelete handles DELETE /api/snapshots/:id/:token.
// Deletes a snapshot using the deletion token provided at creation time.
func (h *Handler) HandleDelete(c echo.Context) error {
	id := c.Param("id")
	token := c.Param("token")

	if err := h.svc.DeleteSnapshot(c.Request().Context(), id, token); err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "snapshot deleted successfully",
	})
}

// HandleHealth handles GET /health.
// Returns the health status of the server, including database connectivity.
func (h *Handler) HandleHealth(c echo.Context) error {
	status := "healthy"
	dbStatus := "connected"

	if err := h.db.HealthCheck(c.Request().Context()); err != nil {
		status = "degraded"
		dbStatus = fmt.Sprintf("error: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   status,
		"database": dbStatus,
	})
}

// HandleStats handles GET /api/stats.
// Returns aggregate server statistics.
func (h *Handler) HandleStats(c echo.Context) error {
	stats, err := h.svc.GetStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to retrieve stats",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_snapshots":    stats.TotalSnapshots,
		"active_snapshots":   stats.ActiveSnapshots,
		"total_restores":     stats.TotalRestores,
		"storage_used_bytes": stats.StorageUsed,
		"storage_used_human": humanizeBytes(stats.StorageUsed),
	})
}

// mapServiceError translates service-layer errors into appropriate HTTP responses.
func mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "snapshot not found"})
	case errors.Is(err, service.ErrExpired):
		return c.JSON(http.StatusGone, echo.Map{"error": "snapshot has expired"})
	case errors.Is(err, service.ErrPasswordRequired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password_required"})
	case errors.Is(err, service.ErrInvalidPassword):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid password"})
	case errors.Is(err, service.ErrInvalidToken):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid deletion token"})
	case errors.Is(err, service.ErrTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{
			"error": "snapshot exceeds maximum allowed size",
		})
	case errors.Is(err, service.ErrInvalidArchive):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or corrupt snapshot archive"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

// humanizeBytes formats a byte count into a human-readable string.
func humanizeBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
