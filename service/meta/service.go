package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads documents (config, batches) from any afs supported location
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// URL resolves a relative location against the base URL
func (s *Service) URL(location string) string {
	if s.baseURL == "" || location == "-" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Download returns raw content of location
func (s *Service) Download(ctx context.Context, location string) ([]byte, error) {
	URL := s.URL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return data, nil
}

// Exists returns true if location exists
func (s *Service) Exists(ctx context.Context, location string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(location), s.options...)
}

// Load decodes a YAML or JSON document into dest; ${env.NAME} expressions are expanded first.
func (s *Service) Load(ctx context.Context, location string, dest interface{}) error {
	data, err := s.Download(ctx, location)
	if err != nil {
		return err
	}
	content := expandEnvExpr(string(data))
	switch strings.ToLower(path.Ext(url.Path(s.URL(location)))) {
	case ".json":
		err = json.Unmarshal([]byte(content), dest)
	default:
		err = yaml.Unmarshal([]byte(content), dest)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %v: %w", location, err)
	}
	return nil
}

// New creates a meta service
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}
