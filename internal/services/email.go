package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"readle/internal/models"
	"readle/internal/progress"
)

// EmailService is a placeholder for a real email sending service.
type EmailService struct {
	log *zap.Logger
}

func NewEmailService(log *zap.Logger) *EmailService {
	return &EmailService{log: log}
}

// SendAttentionDigest simulates sending a teacher the list of students in
// one classroom who need attention.
func (s *EmailService) SendAttentionDigest(teacher models.User, classroom models.Classroom, flagged []progress.StudentRollup) {
	s.log.Info("Sending needs-attention digest",
		zap.String("to", teacher.Email),
		zap.String("classroom", classroom.Name),
		zap.Int("flagged", len(flagged)),
	)

	var lines []string
	for _, r := range flagged {
		lines = append(lines, fmt.Sprintf("  - %s (score %d, last active: %s)",
			r.Name, r.AvgComprehensionScore, lastActive(r)))
	}

	// In a real application, you would use an SMTP client like go-mail
	// to send a templated HTML email here.
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: %d student(s) in %s need attention\nHi %s,\nThese students have fallen behind:\n%s\n\n",
		teacher.Email, len(flagged), classroom.Name, teacher.FirstName, strings.Join(lines, "\n"))
}

func lastActive(r progress.StudentRollup) string {
	if r.LastActivityDate == nil {
		return "Never"
	}
	return r.LastActivityDate.Format("2006-01-02")
}
