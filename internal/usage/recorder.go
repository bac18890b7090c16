package usage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/drip-check/drip-check-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// recordTimeout bounds the DB writes of a single record call.
const recordTimeout = 5 * time.Second

// Recorder appends usage log rows. Telemetry is best-effort: every failure
// is logged and discarded, never surfaced to the caller.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder constructs a Recorder backed by GORM.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record writes a usage log entry for the user and action. Unknown users get
// a bare row created first so the log row has an owner.
func (r *Recorder) Record(ctx context.Context, userID, action string, metadata map[string]any) {
	if r == nil || r.db == nil || userID == "" || action == "" {
		return
	}

	// Detached context: recording must not be cancelled with the request.
	dbCtx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	var user models.User
	if errUser := r.db.WithContext(dbCtx).
		Where(&models.User{ExtensionUserID: userID}).
		FirstOrCreate(&user).Error; errUser != nil {
		log.WithError(errUser).WithField("user_id", userID).
			Warn("usage recorder: user lookup failed")
		return
	}

	payload, errMarshal := json.Marshal(metadata)
	if errMarshal != nil {
		log.WithError(errMarshal).Warn("usage recorder: marshal metadata failed")
		payload = []byte("{}")
	}

	row := models.UsageLog{
		UserID:    user.ID,
		Action:    action,
		Metadata:  datatypes.JSON(payload),
		CreatedAt: time.Now().UTC(),
	}
	if errCreate := r.db.WithContext(dbCtx).Create(&row).Error; errCreate != nil {
		log.WithError(errCreate).WithField("user_id", userID).
			Warn("usage recorder: failed to persist usage log")
	}
}
