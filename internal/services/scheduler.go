package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"readle/internal/config"
	"readle/internal/progress"
	"readle/internal/repository"
)

// Scheduler sends teachers a weekly digest of students who need attention.
type Scheduler struct {
	log          *zap.Logger
	emailService *EmailService
	builder      *progress.Builder
}

func NewScheduler(log *zap.Logger, emailService *EmailService, builder *progress.Builder) *Scheduler {
	return &Scheduler{
		log:          log,
		emailService: emailService,
		builder:      builder,
	}
}

// Start runs the scheduler in a goroutine.
func (s *Scheduler) Start() {
	s.log.Info("Starting digest scheduler...")
	go func() {
		// Ticker will fire on every minute.
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			<-ticker.C
			s.runDigestCheck()
		}
	}()
}

func (s *Scheduler) runDigestCheck() {
	cfg := config.Conf.Digest
	if !cfg.Enabled {
		return
	}

	now := time.Now().UTC()
	if !strings.EqualFold(now.Weekday().String(), cfg.Weekday) || now.Format("15:04") != cfg.SendAtUTC {
		return
	}
	s.log.Debug("Running weekly digest", zap.String("utc_time", now.Format("15:04")))

	ctx := context.Background()
	teachers, err := repository.GetTeachers(ctx)
	if err != nil {
		s.log.Error("Failed to get teachers for digest", zap.Error(err))
		return
	}

	for _, teacher := range teachers {
		classrooms, err := repository.GetClassroomsByTeacher(ctx, teacher.ID)
		if err != nil {
			s.log.Error("Failed to get classrooms for digest", zap.Uint("teacherID", teacher.ID), zap.Error(err))
			continue
		}

		for _, classroom := range classrooms {
			roster, err := repository.ClassroomRoster(ctx, classroom.ID)
			if err != nil {
				s.log.Error("Failed to get roster for digest", zap.Uint("classroomID", classroom.ID), zap.Error(err))
				continue
			}

			rollups := s.builder.ClassroomRollups(ctx, roster, classroom.ID)
			flagged := progress.NeedingAttention(rollups)
			if len(flagged) == 0 {
				continue
			}
			go s.emailService.SendAttentionDigest(teacher, classroom, flagged)
		}
	}
}
