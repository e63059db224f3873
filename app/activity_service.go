package app

import (
	"context"
	"time"

	"orion/domain/activity"
	"orion/domain/core"
	"orion/ports"
)

// ActivityService records and queries the audit trail. Recording is
// best-effort: callers log failures instead of failing the request.
type ActivityService struct {
	repo ports.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(repo ports.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// RecordInput carries the caller-supplied parts of an audit entry
type RecordInput struct {
	Action      string
	DatasetID   *core.DatasetID
	DatasetName string
	Filename    string
	User        string
	IPAddress   string
	Details     string
}

// Record persists one audit entry with a fresh ID and timestamp
func (s *ActivityService) Record(ctx context.Context, in RecordInput) error {
	entry := &activity.Entry{
		ID:          core.NewID(),
		Action:      in.Action,
		DatasetID:   in.DatasetID,
		DatasetName: in.DatasetName,
		Filename:    in.Filename,
		User:        in.User,
		IPAddress:   in.IPAddress,
		Details:     in.Details,
		CreatedAt:   time.Now().UTC(),
	}
	return s.repo.Record(ctx, entry)
}

// List returns recent activity, newest first. An empty action matches
// every entry.
func (s *ActivityService) List(ctx context.Context, action string, limit, offset int) ([]*activity.Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, action, limit, offset)
}

// ListByDataset returns the history of one dataset, newest first
func (s *ActivityService) ListByDataset(ctx context.Context, datasetID core.DatasetID, limit int) ([]*activity.Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.repo.ListByDataset(ctx, datasetID, limit)
}
