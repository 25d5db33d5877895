package economy

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nursequest/nursequest/internal/domain"
)

// BackupVersion is the current backup blob format.
const BackupVersion = 1

// Backup is the export format: every key under the profile namespace,
// stored relative to the prefix so a blob can move between profiles.
type Backup struct {
	Version    int               `json:"version"`
	ProfileID  string            `json:"profileId"`
	ExportedAt time.Time         `json:"exportedAt"`
	Entries    map[string]string `json:"entries"`
}

// SerializeAll exports the profile's whole namespace as a JSON blob.
func SerializeAll(s *Session) (string, error) {
	keys, err := s.Store.Keys(s.Prefix())
	if err != nil {
		return "", fmt.Errorf("list keys: %w", err)
	}
	b := Backup{
		Version:    BackupVersion,
		ProfileID:  s.ProfileID,
		ExportedAt: s.Now().UTC(),
		Entries:    make(map[string]string, len(keys)),
	}
	for _, k := range keys {
		v, ok, err := s.Store.Get(k)
		if err != nil {
			return "", fmt.Errorf("export %s: %w", k, err)
		}
		if ok {
			b.Entries[strings.TrimPrefix(k, s.Prefix())] = v
		}
	}
	out, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	s.Log.Info("profile exported", "entries", len(b.Entries))
	return string(out), nil
}

// ParseBackup decodes and validates a blob without touching any store.
func ParseBackup(blob string) (Backup, error) {
	var b Backup
	if err := json.Unmarshal([]byte(blob), &b); err != nil {
		return b, fmt.Errorf("%w: %v", domain.ErrMalformedBackup, err)
	}
	if b.Version != BackupVersion {
		return b, fmt.Errorf("%w: unsupported version %d", domain.ErrMalformedBackup, b.Version)
	}
	if b.Entries == nil {
		return b, fmt.Errorf("%w: no entries", domain.ErrMalformedBackup)
	}
	for k, v := range b.Entries {
		if k == "" || strings.HasPrefix(k, "nq:") {
			return b, fmt.Errorf("%w: bad key %q", domain.ErrMalformedBackup, k)
		}
		if !json.Valid([]byte(v)) {
			return b, fmt.Errorf("%w: entry %q is not a JSON document", domain.ErrMalformedBackup, k)
		}
	}
	return b, nil
}

// prefixRemover is implemented by stores that can drop a namespace in one
// statement (sqlite).
type prefixRemover interface {
	RemovePrefix(prefix string) (int64, error)
}

func clearNamespace(s *Session) error {
	if pr, ok := s.Store.(prefixRemover); ok {
		if _, err := pr.RemovePrefix(s.Prefix()); err != nil {
			return fmt.Errorf("clear namespace: %w", err)
		}
		return nil
	}
	existing, err := s.Store.Keys(s.Prefix())
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}
	for _, k := range existing {
		if err := s.Store.Remove(k); err != nil {
			return fmt.Errorf("clear %s: %w", k, err)
		}
	}
	return nil
}

// RestoreAll replaces the profile's namespace with the blob's entries.
// A blob that fails validation leaves the store untouched.
func RestoreAll(s *Session, blob string) error {
	b, err := ParseBackup(blob)
	if err != nil {
		return err
	}
	if err := clearNamespace(s); err != nil {
		return err
	}
	names := make([]string, 0, len(b.Entries))
	for k := range b.Entries {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := s.Store.Set(s.key(k), b.Entries[k]); err != nil {
			return fmt.Errorf("import %s: %w", k, err)
		}
	}
	s.Log.Info("profile imported", "entries", len(names), "from", b.ProfileID, "exported_at", b.ExportedAt)
	return nil
}
