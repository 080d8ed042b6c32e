package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readle/internal/progress"
	"readle/internal/repository"
)

type DashboardHandler struct {
	log     *zap.Logger
	builder *progress.Builder
}

func NewDashboardHandler(log *zap.Logger, builder *progress.Builder) *DashboardHandler {
	return &DashboardHandler{log: log, builder: builder}
}

// ClassroomProgress renders the teacher's classroom view: one rollup per
// student, filtered and sorted per the query string, plus the summary
// widgets derived from the filtered set.
func (h *DashboardHandler) ClassroomProgress(c *gin.Context) {
	classroomID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom id"})
		return
	}
	if !h.canViewClassroom(c, classroomID) {
		return
	}

	roster, err := repository.ClassroomRoster(c.Request.Context(), classroomID)
	if err != nil {
		h.log.Error("Failed to load classroom roster", zap.Uint("classroomID", classroomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load classroom"})
		return
	}

	rollups := h.builder.ClassroomRollups(c.Request.Context(), roster, classroomID)
	filtered := progress.Filter(rollups, criteriaFromQuery(c))

	c.JSON(http.StatusOK, gin.H{
		"rollups":          filtered,
		"summary":          progress.Summarize(filtered),
		"topPerformers":    progress.TopPerformers(filtered),
		"needingAttention": progress.NeedingAttention(filtered),
	})
}

// canViewClassroom aborts unless the actor teaches the classroom.
func (h *DashboardHandler) canViewClassroom(c *gin.Context, classroomID uint) bool {
	user, _ := currentUser(c)
	classroom, err := repository.GetClassroomByID(c.Request.Context(), classroomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Classroom not found"})
		return false
	}
	if classroom.TeacherID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your classroom"})
		return false
	}
	return true
}
