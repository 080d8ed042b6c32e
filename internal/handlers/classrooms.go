package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readle/internal/repository"
)

type ClassroomHandler struct {
	log *zap.Logger
}

func NewClassroomHandler(log *zap.Logger) *ClassroomHandler {
	return &ClassroomHandler{log: log}
}

type createClassroomRequest struct {
	Name string `json:"name"`
}

func (h *ClassroomHandler) Create(c *gin.Context) {
	user, _ := currentUser(c)

	var req createClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A classroom needs a name"})
		return
	}

	classroom, err := repository.CreateClassroom(c.Request.Context(), req.Name, user.ID)
	if err != nil {
		h.log.Error("Failed to create classroom", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create classroom"})
		return
	}
	c.JSON(http.StatusCreated, classroom)
}

func (h *ClassroomHandler) List(c *gin.Context) {
	user, _ := currentUser(c)

	classrooms, err := repository.GetClassroomsByTeacher(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to list classrooms", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list classrooms"})
		return
	}
	c.JSON(http.StatusOK, classrooms)
}

type rosterRequest struct {
	StudentID uint `json:"studentId"`
}

func (h *ClassroomHandler) AddStudent(c *gin.Context) {
	classroomID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom id"})
		return
	}
	if !h.ownsClassroom(c, classroomID) {
		return
	}

	var req rosterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StudentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}

	if err := repository.AddStudentToClassroom(c.Request.Context(), classroomID, req.StudentID); err != nil {
		h.log.Error("Failed to add student to classroom",
			zap.Uint("classroomID", classroomID),
			zap.Uint("studentID", req.StudentID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add student"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClassroomHandler) RemoveStudent(c *gin.Context) {
	classroomID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom id"})
		return
	}
	studentID, ok := uintParam(c, "studentId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}
	if !h.ownsClassroom(c, classroomID) {
		return
	}

	if err := repository.RemoveStudentFromClassroom(c.Request.Context(), classroomID, studentID); err != nil {
		h.log.Error("Failed to remove student from classroom", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove student"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ownsClassroom aborts with 404/403 unless the acting teacher owns the
// classroom.
func (h *ClassroomHandler) ownsClassroom(c *gin.Context, classroomID uint) bool {
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
