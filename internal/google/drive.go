package google

import (
	"context"
	"fmt"
	"io"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
)

const driveFileFields = "id, name, mimeType, size, modifiedTime, webViewLink"

// File is a Drive file as shown in a project's document list.
type File struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	ModifiedTime time.Time `json:"modifiedTime"`
	WebViewLink  string    `json:"webViewLink,omitempty"`
}

// Document maps f to a new project document record referencing the Drive file. The
// record gets its own id when stored.
func (f File) Document(projectID, folderID string) domain.Document {
	return domain.Document{
		ProjectID:     projectID,
		Name:          f.Name,
		Type:          f.MimeType,
		Category:      domain.DocOther,
		UploadedAt:    f.ModifiedTime,
		Size:          f.Size,
		IsDriveFile:   true,
		DriveFileID:   f.ID,
		DriveFolderID: folderID,
	}
}

type Drive struct {
	svc *drive.Service
}

func NewDrive(ctx context.Context, opts ...option.ClientOption) (*Drive, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive.NewService: %w", err)
	}
	return &Drive{svc: svc}, nil
}

// ListFiles lists non-trashed files directly inside folderID.
func (d *Drive) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	var out []File
	q := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	err := d.svc.Files.List().Q(q).
		Fields("nextPageToken, files("+driveFileFields+")").
		PageSize(100).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				out = append(out, fromDrive(f))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("drive list files: %w", err)
	}
	return out, nil
}

func (d *Drive) Upload(ctx context.Context, folderID, name, mimeType string, r io.Reader) (File, error) {
	meta := &drive.File{Name: name, MimeType: mimeType}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}
	created, err := d.svc.Files.Create(meta).Media(r).Fields(driveFileFields).Context(ctx).Do()
	if err != nil {
		return File{}, fmt.Errorf("drive upload: %w", err)
	}
	return fromDrive(created), nil
}

// Download streams the content of fileID; the caller closes it.
func (d *Drive) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := d.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("drive download: %w", err)
	}
	return resp.Body, nil
}

func fromDrive(f *drive.File) File {
	out := File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, Size: f.Size, WebViewLink: f.WebViewLink}
	if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
		out.ModifiedTime = t
	}
	return out
}
