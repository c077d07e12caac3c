// Package gdrive uploads backup documents to a Google Drive folder and
// restores them, using service account credentials.
package gdrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"masrofi/internal/backup"
	"masrofi/internal/core"
	"masrofi/internal/log"
	"masrofi/internal/storage"
)

const (
	FileName = "masrofi-backup.json"
	mimeJSON = "application/json"
)

var ErrNoBackup = errors.New("no cloud backup found")

// Files is the slice of the Drive API the client needs.
type Files interface {
	Create(ctx context.Context, name, folderID string, data []byte) (string, error)
	Update(ctx context.Context, fileID string, data []byte) error
	Download(ctx context.Context, fileID string) ([]byte, error)
	Latest(ctx context.Context, name, folderID string) (string, error)
}

// Client keeps one backup file per folder and records CloudBackupInfo.
type Client struct {
	files    Files
	folderID string
	backup   *backup.Service
	store    *storage.Store
	now      func() time.Time
	logger   *log.Logger
}

// New connects to Drive with the given service account JSON.
func New(ctx context.Context, credentialsJSON []byte, folderID string, b *backup.Service, store *storage.Store) (*Client, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(drive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return NewWithFiles(&driveFiles{svc: svc}, folderID, b, store, time.Now), nil
}

func NewWithFiles(files Files, folderID string, b *backup.Service, store *storage.Store, now func() time.Time) *Client {
	if now == nil {
		now = time.Now
	}
	return &Client{
		files:    files,
		folderID: folderID,
		backup:   b,
		store:    store,
		now:      now,
		logger:   log.ForComponent(log.ComponentBackup),
	}
}

// Status returns the stored cloud backup info.
func (c *Client) Status(ctx context.Context) core.CloudBackupInfo {
	return c.store.CloudBackup.Get(ctx)
}

// Backup exports the store and uploads it, overwriting the previous upload
// when it still exists.
func (c *Client) Backup(ctx context.Context) (core.CloudBackupInfo, error) {
	data, err := c.backup.Export(ctx)
	if err != nil {
		return core.CloudBackupInfo{}, err
	}

	info := c.store.CloudBackup.Get(ctx)
	fileID := info.FileID
	if fileID != "" {
		err = c.files.Update(ctx, fileID, data)
		if isNotFound(err) {
			c.logger.WarnContext(ctx, "Previous cloud backup is gone, creating a new one", "file_id", fileID)
			fileID = ""
		} else if err != nil {
			return info, fmt.Errorf("update cloud backup: %w", err)
		}
	}
	if fileID == "" {
		fileID, err = c.files.Create(ctx, FileName, c.folderID, data)
		if err != nil {
			return info, fmt.Errorf("upload cloud backup: %w", err)
		}
	}

	stamp := core.FormatInstant(c.now())
	info, err = c.store.CloudBackup.Mutate(ctx, func(i core.CloudBackupInfo) (core.CloudBackupInfo, error) {
		i.FileID = fileID
		i.LastBackup = stamp
		i.IsEnabled = true
		return i, nil
	})
	if err != nil {
		return core.CloudBackupInfo{}, fmt.Errorf("record cloud backup: %w", err)
	}
	c.logger.InfoContext(ctx, "Cloud backup uploaded", "file_id", fileID, "bytes", len(data))
	return info, nil
}

// Restore downloads the last upload (or the newest backup file in the
// folder) and imports it.
func (c *Client) Restore(ctx context.Context) (core.CloudBackupInfo, error) {
	info := c.store.CloudBackup.Get(ctx)
	fileID := info.FileID
	if fileID == "" {
		id, err := c.files.Latest(ctx, FileName, c.folderID)
		if err != nil {
			return info, fmt.Errorf("find cloud backup: %w", err)
		}
		if id == "" {
			return info, ErrNoBackup
		}
		fileID = id
	}

	data, err := c.files.Download(ctx, fileID)
	if err != nil {
		if isNotFound(err) {
			return info, ErrNoBackup
		}
		return info, fmt.Errorf("download cloud backup: %w", err)
	}
	if _, err := c.backup.Import(ctx, data); err != nil {
		return info, err
	}

	stamp := core.FormatInstant(c.now())
	info, err = c.store.CloudBackup.Mutate(ctx, func(i core.CloudBackupInfo) (core.CloudBackupInfo, error) {
		i.FileID = fileID
		i.LastRestore = stamp
		i.IsEnabled = true
		return i, nil
	})
	if err != nil {
		return core.CloudBackupInfo{}, fmt.Errorf("record cloud restore: %w", err)
	}
	c.logger.InfoContext(ctx, "Cloud backup restored", "file_id", fileID)
	return info, nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

type driveFiles struct {
	svc *drive.Service
}

func (d *driveFiles) Create(ctx context.Context, name, folderID string, data []byte) (string, error) {
	f := &drive.File{Name: name, MimeType: mimeJSON}
	if folderID != "" {
		f.Parents = []string{folderID}
	}
	created, err := d.svc.Files.Create(f).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeJSON)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (d *driveFiles) Update(ctx context.Context, fileID string, data []byte) error {
	_, err := d.svc.Files.Update(fileID, &drive.File{}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeJSON)).
		Context(ctx).
		Do()
	return err
}

func (d *driveFiles) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := d.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (d *driveFiles) Latest(ctx context.Context, name, folderID string) (string, error) {
	q := fmt.Sprintf("name = '%s' and trashed = false", name)
	if folderID != "" {
		q += fmt.Sprintf(" and '%s' in parents", folderID)
	}
	list, err := d.svc.Files.List().
		Q(q).
		OrderBy("modifiedTime desc").
		PageSize(1).
		Fields("files(id)").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}
