package entity

import (
	"context"
	"io"
	"strings"

	"github.com/fieldsales/visitkit/core/apiclient"
)

const uploadEndpoint = "/files/upload"

// UploadResult is the backend's description of a stored file.
type UploadResult struct {
	URL         string `json:"url"`
	FileID      string `json:"fileId"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Files uploads attachments (visit photos, documents) to the backend.
type Files struct {
	client *apiclient.Client
}

// NewFiles creates the upload helper.
func NewFiles(client *apiclient.Client) *Files {
	return &Files{client: client}
}

// Upload streams the reader as a multipart file upload and returns the
// stored file's metadata.
func (f *Files) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrEmptyFilename
	}

	var out UploadResult
	if err := f.client.Upload(ctx, uploadEndpoint, "file", filename, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
