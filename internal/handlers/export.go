package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readle/internal/progress"
	"readle/internal/repository"
)

type ExportHandler struct {
	log     *zap.Logger
	builder *progress.Builder
}

func NewExportHandler(log *zap.Logger, builder *progress.Builder) *ExportHandler {
	return &ExportHandler{log: log, builder: builder}
}

// ClassroomCSV streams the filtered, sorted classroom report as a CSV
// download. The same query parameters as the dashboard apply, so the export
// always matches what the teacher is looking at.
func (h *ExportHandler) ClassroomCSV(c *gin.Context) {
	classroomID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom id"})
		return
	}

	user, _ := currentUser(c)
	classroom, err := repository.GetClassroomByID(c.Request.Context(), classroomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Classroom not found"})
		return
	}
	if classroom.TeacherID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your classroom"})
		return
	}

	roster, err := repository.ClassroomRoster(c.Request.Context(), classroomID)
	if err != nil {
		h.log.Error("Failed to load classroom roster for export", zap.Uint("classroomID", classroomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load classroom"})
		return
	}

	rollups := h.builder.ClassroomRollups(c.Request.Context(), roster, classroomID)
	rows := progress.ExportRows(progress.Filter(rollups, criteriaFromQuery(c)))

	fileName := fmt.Sprintf("progress-%d-%s.csv", classroomID, time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	w := csv.NewWriter(c.Writer)
	if err := w.Write(progress.ExportHeader()); err != nil {
		h.log.Error("Failed to write CSV header", zap.Error(err))
		return
	}
	for _, row := range rows {
		if err := w.Write(row.Fields()); err != nil {
			h.log.Error("Failed to write CSV row", zap.Error(err))
			return
		}
	}
	w.Flush()
}
