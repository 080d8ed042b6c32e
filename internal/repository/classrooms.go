package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"readle/internal/database"
	"readle/internal/models"
	"readle/internal/progress"
)

func CreateClassroom(ctx context.Context, name string, teacherID uint) (*models.Classroom, error) {
	classroom := &models.Classroom{Name: name, TeacherID: teacherID}
	result := database.DB.WithContext(ctx).Create(classroom)
	return classroom, result.Error
}

func GetClassroomByID(ctx context.Context, id uint) (*models.Classroom, error) {
	var classroom models.Classroom
	result := database.DB.WithContext(ctx).First(&classroom, id)
	return &classroom, result.Error
}

func GetClassroomsByTeacher(ctx context.Context, teacherID uint) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	result := database.DB.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("name").Find(&classrooms)
	return classrooms, result.Error
}

func AddStudentToClassroom(ctx context.Context, classroomID, studentID uint) error {
	membership := models.ClassroomMembership{ClassroomID: classroomID, StudentID: studentID}
	return database.DB.WithContext(ctx).FirstOrCreate(&membership, membership).Error
}

func RemoveStudentFromClassroom(ctx context.Context, classroomID, studentID uint) error {
	return database.DB.WithContext(ctx).
		Where("classroom_id = ? AND student_id = ?", classroomID, studentID).
		Delete(&models.ClassroomMembership{}).Error
}

// ClassroomRoster returns the students of a classroom as rollup references,
// ordered by name so rollups and exports come out in a stable order.
func ClassroomRoster(ctx context.Context, classroomID uint) ([]progress.StudentRef, error) {
	var students []models.User
	err := database.DB.WithContext(ctx).
		Joins("JOIN classroom_memberships ON classroom_memberships.student_id = users.id").
		Where("classroom_memberships.classroom_id = ?", classroomID).
		Order("users.first_name, users.last_name").
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	roster := make([]progress.StudentRef, 0, len(students))
	for _, s := range students {
		roster = append(roster, progress.StudentRef{ID: s.ID, Name: s.FullName(), Email: s.Email})
	}
	return roster, nil
}

// IsClassroomMember reports whether the student belongs to the classroom.
func IsClassroomMember(ctx context.Context, classroomID, studentID uint) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.ClassroomMembership{}).
		Where("classroom_id = ? AND student_id = ?", classroomID, studentID).
		Count(&count).Error
	return count > 0, err
}

// TeacherCanViewStudent reports whether the teacher teaches the student. With
// a classroom id the classroom must be the teacher's own and the student a
// member of it; with classroom 0 membership of any of the teacher's
// classrooms suffices.
func TeacherCanViewStudent(ctx context.Context, teacherID, studentID, classroomID uint) (bool, error) {
	if classroomID != 0 {
		classroom, err := GetClassroomByID(ctx, classroomID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if classroom.TeacherID != teacherID {
			return false, nil
		}
		return IsClassroomMember(ctx, classroomID, studentID)
	}

	var count int64
	err := database.DB.WithContext(ctx).Model(&models.ClassroomMembership{}).
		Joins("JOIN classrooms ON classrooms.id = classroom_memberships.classroom_id").
		Where("classrooms.teacher_id = ? AND classroom_memberships.student_id = ?", teacherID, studentID).
		Count(&count).Error
	return count > 0, err
}
