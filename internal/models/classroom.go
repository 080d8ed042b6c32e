package models

import "time"

type Classroom struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	TeacherID uint
	Teacher   User `gorm:"foreignKey:TeacherID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClassroomMembership links one student to one classroom.
type ClassroomMembership struct {
	ID          uint `gorm:"primaryKey"`
	ClassroomID uint `gorm:"index:idx_membership,unique"`
	Classroom   Classroom
	StudentID   uint `gorm:"index:idx_membership,unique"`
	Student     User `gorm:"foreignKey:StudentID"`
	CreatedAt   time.Time
}
