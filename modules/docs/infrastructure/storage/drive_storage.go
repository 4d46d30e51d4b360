// Package storage implements the document file store on Google Drive.
package storage

import (
	"bytes"
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/fleetdock/fleetdock/modules/docs/domain/upload"
	"github.com/fleetdock/fleetdock/pkg/configuration"
)

type DriveStorage struct {
	svc      *drive.Service
	folderID string
}

func NewDriveStorage(ctx context.Context, conf configuration.DriveOptions) (*DriveStorage, error) {
	var opts []option.ClientOption
	switch {
	case conf.CredentialsJSON != "":
		creds, err := google.CredentialsFromJSON(ctx, []byte(conf.CredentialsJSON), drive.DriveFileScope)
		if err != nil {
			return nil, errors.Wrap(err, "parse drive credentials")
		}
		opts = append(opts, option.WithCredentials(creds))
	case conf.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(conf.CredentialsPath), option.WithScopes(drive.DriveFileScope))
	default:
		return nil, errors.New("drive storage requires credentials")
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create drive service")
	}
	return &DriveStorage{svc: svc, folderID: conf.FolderID}, nil
}

func (s *DriveStorage) Save(ctx context.Context, filename string, contentType string, data []byte) (upload.StoredFile, error) {
	meta := &drive.File{Name: filename}
	if s.folderID != "" {
		meta.Parents = []string{s.folderID}
	}

	created, err := s.svc.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return upload.StoredFile{}, errors.Wrap(upload.ErrStorageFailed, err.Error())
	}
	return upload.StoredFile{FileID: created.Id, WebLink: created.WebViewLink}, nil
}

func (s *DriveStorage) Delete(ctx context.Context, fileID string) error {
	if err := s.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return errors.Wrap(upload.ErrStorageFailed, err.Error())
	}
	return nil
}

// Disabled is the storage used when no Drive credentials are configured:
// document records still work, file uploads fail fast with a clear error.
type Disabled struct{}

func (Disabled) Save(context.Context, string, string, []byte) (upload.StoredFile, error) {
	return upload.StoredFile{}, errors.Wrap(upload.ErrStorageFailed, "file storage is not configured")
}

func (Disabled) Delete(context.Context, string) error {
	return errors.Wrap(upload.ErrStorageFailed, "file storage is not configured")
}
