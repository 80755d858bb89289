package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// SnapshotPublisher stores rendered schedules so they can be served
// without going through the console.
type SnapshotPublisher struct {
	uploader FileUploader
	logger   *slog.Logger
}

func NewSnapshotPublisher(uploader FileUploader, logger *slog.Logger) *SnapshotPublisher {
	return &SnapshotPublisher{uploader: uploader, logger: logger}
}

// SnapshotKey is the object key of a stage's published schedule.
func SnapshotKey(stageID string) string {
	return "stages/" + stageID + "/schedule.json"
}

// Publish uploads snapshot as JSON, replacing any earlier one.
func (p *SnapshotPublisher) Publish(ctx context.Context, stageID string, snapshot any) (*UploadResult, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot of stage %s: %w", stageID, err)
	}

	result, err := p.uploader.Upload(ctx, SnapshotKey(stageID), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	p.logger.Info("schedule snapshot published",
		slog.String("stage_id", stageID), slog.String("location", result.Location), slog.Int("bytes", len(body)))
	return result, nil
}

// Unpublish removes a stage's published schedule.
func (p *SnapshotPublisher) Unpublish(ctx context.Context, stageID string) error {
	if err := p.uploader.Delete(ctx, SnapshotKey(stageID)); err != nil {
		return err
	}
	p.logger.Info("schedule snapshot removed", slog.String("stage_id", stageID))
	return nil
}
