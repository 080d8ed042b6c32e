package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"readle/internal/models"
	"readle/internal/progress"
	"readle/internal/repository"
	"readle/internal/scoring"
)

// IngestHandler receives progress updates and activity attempts from the
// reader clients. Payloads arrive in whatever shape the client generation
// produces; everything is stored raw and reconciled at aggregation time.
type IngestHandler struct {
	log     *zap.Logger
	catalog *models.Catalog
}

func NewIngestHandler(log *zap.Logger, catalog *models.Catalog) *IngestHandler {
	return &IngestHandler{log: log, catalog: catalog}
}

type progressPayload struct {
	progress.RawBookProgress
	SessionData  json.RawMessage `json:"sessionData,omitempty"`
	PagesVisited []int64         `json:"pagesVisited,omitempty"`
}

// SaveProgress upserts the acting student's progress for one book.
func (h *IngestHandler) SaveProgress(c *gin.Context) {
	user, _ := currentUser(c)

	var payload progressPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Error("Failed to bind progress payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if _, ok := h.catalog.BookByID(payload.BookID); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown book"})
		return
	}

	row := models.BookProgress{
		StudentID:          user.ID,
		ClassroomID:        payload.ClassroomID,
		BookID:             payload.BookID,
		Completed:          payload.Completed,
		LastPageRead:       payload.LastPageRead,
		TotalPages:         payload.TotalPages,
		PagesVisited:       pq.Int64Array(payload.PagesVisited),
		ReadingTimeSeconds: payload.ReadingTimeSeconds,
		ReadingTimeMinutes: payload.ReadingTimeMinutes,
		LastReadAt:         payload.LastReadAt,
		CompletedAt:        payload.CompletedAt,
		SessionData:        payload.SessionData,
	}
	// The nested duration may come either inside the session blob or as a
	// top-level object; fold the latter into the blob so one column holds it.
	if payload.Duration != nil && len(row.SessionData) == 0 {
		if data, err := json.Marshal(map[string]any{"duration": payload.Duration}); err == nil {
			row.SessionData = data
		}
	}

	if err := repository.UpsertBookProgress(c.Request.Context(), row); err != nil {
		h.log.Error("Failed to save book progress",
			zap.Uint("studentID", user.ID),
			zap.String("bookID", payload.BookID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save progress"})
		return
	}
	c.Status(http.StatusOK)
}

type attemptPayload struct {
	BookID       string  `json:"bookId"`
	ActivityType string  `json:"activityType"`
	Attempts     float64 `json:"attempts,omitempty"`
	Outcome      float64 `json:"outcome,omitempty"`
	Correct      *bool   `json:"correct,omitempty"`
}

// SaveAttempt records one activity play-through. Snake game and sequencing
// bump an attempt counter; legacy tablet clients keep their own running
// tally and send it along, which replaces the server count. Prediction
// stores the answer against the book's checkpoint, accepting both the
// boolean flag and the legacy 1/2 outcome integer.
func (h *IngestHandler) SaveAttempt(c *gin.Context) {
	user, _ := currentUser(c)

	var payload attemptPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Error("Failed to bind attempt payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	activity := scoring.ActivityType(payload.ActivityType)
	if !activity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown activity type"})
		return
	}
	if _, ok := h.catalog.BookByID(payload.BookID); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown book"})
		return
	}

	var err error
	if activity == scoring.Prediction {
		correct, ok := predictionOutcome(payload)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prediction attempt carries no outcome"})
			return
		}
		err = repository.RecordPredictionAttempt(c.Request.Context(), user.ID, payload.BookID, correct)
	} else {
		err = repository.RecordActivityAttempt(c.Request.Context(), user.ID, payload.BookID, activity, attemptCount(payload))
	}

	if err != nil {
		h.log.Error("Failed to record attempt",
			zap.Uint("studentID", user.ID),
			zap.String("bookID", payload.BookID),
			zap.String("activity", payload.ActivityType),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attempt"})
		return
	}
	c.Status(http.StatusOK)
}

// predictionOutcome normalizes the two client encodings into one boolean.
func predictionOutcome(payload attemptPayload) (bool, bool) {
	if payload.Correct != nil {
		return *payload.Correct, true
	}
	return scoring.CorrectFromLegacyOutcome(int(payload.Outcome))
}

// attemptCount extracts the client-kept tally from the payload; 0 means the
// client sent none and the server counter is authoritative.
func attemptCount(payload attemptPayload) int {
	return scoring.NormalizeAttemptCount(payload.Attempts)
}
