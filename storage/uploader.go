package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// UploadResult describes a stored evidence object.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores match evidence screenshots. The scoreboard core only
// keeps the returned keys; serving and lifecycle of the files is the bucket's
// concern.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// EvidenceKey builds the object key for a team's evidence upload.
func EvidenceKey(tournamentID, teamCode, filename string) string {
	return fmt.Sprintf("evidence/%s/%s/%d-%s", tournamentID, teamCode, time.Now().UnixMilli(), filename)
}
