package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readle/internal/progress"
	"readle/internal/repository"
)

type StudentHandler struct {
	log     *zap.Logger
	builder *progress.Builder

	// canView decides whether a teacher may see a student's rollup.
	canView func(ctx context.Context, teacherID, studentID, classroomID uint) (bool, error)
}

func NewStudentHandler(log *zap.Logger, builder *progress.Builder) *StudentHandler {
	return &StudentHandler{
		log:     log,
		builder: builder,
		canView: repository.TeacherCanViewStudent,
	}
}

// Progress returns one student's rollup. Students may only view their own;
// teachers may view students in classrooms they own. An optional classroom
// query param narrows the scope, otherwise the rollup is global.
func (h *StudentHandler) Progress(c *gin.Context) {
	studentID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}

	var classroomID uint
	if v, ok := uintQuery(c, "classroom"); ok {
		classroomID = v
	}

	actor, _ := currentUser(c)
	if actor.ID != studentID {
		if !actor.IsTeacher() {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own progress"})
			return
		}
		allowed, err := h.canView(c.Request.Context(), actor.ID, studentID, classroomID)
		if err != nil {
			h.log.Error("Failed to check classroom membership",
				zap.Uint("teacherID", actor.ID),
				zap.Uint("studentID", studentID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress"})
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only view students in your classrooms"})
			return
		}
	}

	student, err := repository.GetUserByID(c.Request.Context(), studentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	rollup := h.builder.StudentRollup(c.Request.Context(), progress.StudentRef{
		ID:    student.ID,
		Name:  student.FullName(),
		Email: student.Email,
	}, classroomID)

	c.JSON(http.StatusOK, rollup)
}
