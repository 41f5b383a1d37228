package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Upload renders report and stores it under URL using any afs supported storage
func Upload(ctx context.Context, fs afs.Service, URL string, renderer Renderer, report *Report) error {
	buffer := &bytes.Buffer{}
	if err := renderer.Render(buffer, report); err != nil {
		return err
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(buffer.Bytes())); err != nil {
		return fmt.Errorf("failed to upload report to %v: %w", URL, err)
	}
	return nil
}
