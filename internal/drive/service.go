// Package drive archives digests into a Google Drive folder.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

type Service struct {
	srv        *drive.Service
	folderPath string

	mu       sync.Mutex
	folderID string
}

// NewService authenticates with a service account key file.
func NewService(ctx context.Context, credentialsFile, folderPath string) (*Service, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	// Parse credentials from JSON
	config, err := google.JWTConfigFromJSON(credentialsJSON, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	return NewServiceWithOptions(ctx, folderPath, option.WithHTTPClient(config.Client(ctx)))
}

// NewServiceWithOptions builds the Drive client from explicit client options.
func NewServiceWithOptions(ctx context.Context, folderPath string, opts ...option.ClientOption) (*Service, error) {
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %w", err)
	}

	return &Service{srv: srv, folderPath: folderPath}, nil
}

// Archive uploads data into the configured folder and returns its web link.
func (s *Service) Archive(ctx context.Context, name, contentType string, data []byte) (string, error) {
	folderID, err := s.archiveFolder(ctx)
	if err != nil {
		return "", err
	}

	file := &drive.File{
		Name:    strings.ReplaceAll(name, "/", "_"),
		Parents: []string{folderID},
	}
	created, err := s.srv.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("unable to upload %s: %w", name, err)
	}

	if created.WebViewLink != "" {
		return created.WebViewLink, nil
	}
	return "drive://" + created.Id, nil
}

func (s *Service) archiveFolder(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.folderID != "" {
		return s.folderID, nil
	}
	id, err := s.EnsureFolder(ctx, s.folderPath)
	if err != nil {
		return "", err
	}
	s.folderID = id
	return id, nil
}

// EnsureFolder walks path from the root, creating missing folders.
func (s *Service) EnsureFolder(ctx context.Context, path string) (string, error) {
	currentID := "root"

	for _, folder := range strings.Split(path, "/") {
		if folder == "" {
			continue
		}

		result, err := s.srv.Files.List().
			Q(folderQuery(currentID, folder)).
			Fields("files(id, name)").
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("error finding folder %s: %w", folder, err)
		}

		if len(result.Files) > 0 {
			currentID = result.Files[0].Id
			continue
		}

		created, err := s.srv.Files.Create(&drive.File{
			Name:     folder,
			MimeType: folderMimeType,
			Parents:  []string{currentID},
		}).Fields("id").Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("error creating folder %s: %w", folder, err)
		}
		currentID = created.Id
	}

	return currentID, nil
}

func folderQuery(parentID, name string) string {
	escaped := strings.ReplaceAll(name, `'`, `\'`)
	return fmt.Sprintf("'%s' in parents and name='%s' and mimeType='%s' and trashed=false",
		parentID, escaped, folderMimeType)
}
