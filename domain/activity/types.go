package activity

import (
	"time"

	"orion/domain/core"
)

// Action kinds recorded in the activity log
const (
	ActionUpload  = "upload"
	ActionAccess  = "access"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionPredict = "predict"
)

// Entry is one audit record. DatasetName and Filename are denormalized
// so the history survives dataset deletion.
type Entry struct {
	ID          core.ID         `json:"id"`
	Action      string          `json:"action"`
	DatasetID   *core.DatasetID `json:"dataset_id,omitempty"`
	DatasetName string          `json:"dataset_name,omitempty"`
	Filename    string          `json:"filename,omitempty"`
	User        string          `json:"user"`
	IPAddress   string          `json:"ip_address,omitempty"`
	Details     string          `json:"details,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
