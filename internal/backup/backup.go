// Package backup exports every stored collection into one JSON document and
// restores it. Import validates the whole document before writing anything;
// each present key then replaces its collection wholesale and absent keys
// are left alone.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"masrofi/internal/core"
	"masrofi/internal/log"
	"masrofi/internal/storage"
)

const (
	FieldExportDate = "exportDate"
	FieldAppVersion = "appVersion"
)

var ErrInvalidBackup = errors.New("invalid backup")

// Keys are the stored keys carried by a backup, in document order.
var Keys = []string{
	storage.KeyExpenses,
	storage.KeyDebts,
	storage.KeyShoppingLists,
	storage.KeyShoppingItems,
	storage.KeyBudgets,
	storage.KeySavingsGoals,
	storage.KeyRecurringExpenses,
	storage.KeyWallets,
	storage.KeyBillReminders,
	storage.KeySettings,
	storage.KeyIncome,
}

func isObjectKey(key string) bool { return key == storage.KeySettings }

type Service struct {
	store   *storage.Store
	version string
	now     func() time.Time
	logger  *log.Logger
}

func NewService(store *storage.Store, appVersion string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:   store,
		version: appVersion,
		now:     now,
		logger:  log.ForComponent(log.ComponentBackup),
	}
}

// Export returns the backup document. Stored JSON is carried as-is; absent
// collections export as empty arrays and absent settings as the defaults.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(Keys)+2)
	for _, key := range Keys {
		if raw, ok := s.store.Raw(ctx, key); ok {
			doc[key] = raw
			continue
		}
		if isObjectKey(key) {
			def, err := json.Marshal(s.store.Settings.Get(ctx))
			if err != nil {
				return nil, fmt.Errorf("encode settings: %w", err)
			}
			doc[key] = def
			continue
		}
		doc[key] = json.RawMessage("[]")
	}

	date, _ := json.Marshal(core.FormatInstant(s.now()))
	version, _ := json.Marshal(s.version)
	doc[FieldExportDate] = date
	doc[FieldAppVersion] = version

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	s.logger.InfoContext(ctx, "Backup exported", "bytes", len(out))
	return out, nil
}

// Import restores a backup document and returns the keys it replaced.
func (s *Service) Import(ctx context.Context, data []byte) ([]string, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, key := range Keys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		if err := s.store.SetRaw(ctx, key, raw); err != nil {
			return written, fmt.Errorf("restore %s: %w", key, err)
		}
		written = append(written, key)
	}
	s.logger.InfoContext(ctx, "Backup imported", "keys", written)
	return written, nil
}

// Parse checks that data is a JSON object and that every known key holds the
// right JSON kind. Keys whose value is null are treated as absent.
func Parse(data []byte) (map[string]json.RawMessage, error) {
	if kind(data) != '{' {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidBackup)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	out := make(map[string]json.RawMessage, len(doc))
	for _, key := range Keys {
		raw, ok := doc[key]
		if !ok || kind(raw) == 'n' {
			continue
		}
		want := byte('[')
		if isObjectKey(key) {
			want = '{'
		}
		if kind(raw) != want {
			return nil, fmt.Errorf("%w: %s has the wrong type", ErrInvalidBackup, key)
		}
		out[key] = raw
	}
	return out, nil
}

// kind returns the first significant byte of a JSON value.
func kind(data []byte) byte {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}
	return data[0]
}
