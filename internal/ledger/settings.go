package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Predeclared setting keys. Keys are seeded with defaults when the store
// opens and are never invented elsewhere.
const (
	SettingVersion           = "version"
	SettingArchiveExtensions = "archive_extensions"
	SettingObsoleteThreshold = "obsolete_threshold"
	SettingObsoleteExclude   = "obsolete_exclude"
	SettingSetAltapps        = "set_altapps"
)

var settingDefaults = []struct {
	key   string
	value string
}{
	{SettingVersion, SchemaVersion},
	{SettingArchiveExtensions, "zip,7z"},
	{SettingObsoleteThreshold, "1"},
	{SettingObsoleteExclude, ""},
	{SettingSetAltapps, "1"},
}

// Setting is one configuration row.
type Setting struct {
	Key   string
	Value string
}

func (s *Store) seedSettings(ctx context.Context) error {
	for _, def := range settingDefaults {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO setting (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`,
			def.key, def.value,
		)
		if err != nil {
			return fmt.Errorf("seed setting %q: %w", def.key, err)
		}
	}
	return nil
}

// Setting returns the value for key and whether the key exists.
func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM setting WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetSetting replaces the value of an existing key. Unknown keys are
// rejected; the setting table only ever holds predeclared keys.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE setting SET value = ? WHERE key = ?`, value, key)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	if affected == 0 {
		return fmt.Errorf("unknown setting: %s", key)
	}
	return nil
}

// AppendSetting concatenates value onto the existing value of key.
func (s *Store) AppendSetting(ctx context.Context, key, value string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE setting SET value = value || ? WHERE key = ?`, value, key)
	if err != nil {
		return fmt.Errorf("append setting %q: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append setting %q: %w", key, err)
	}
	if affected == 0 {
		return fmt.Errorf("unknown setting: %s", key)
	}
	return nil
}

// Settings returns every setting row ordered by key.
func (s *Store) Settings(ctx context.Context) ([]Setting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM setting ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var setting Setting
		if err := rows.Scan(&setting.Key, &setting.Value); err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

// NewerSchema reports whether the database records a schema version above the
// one this build understands. The caller should warn before proceeding.
func (s *Store) NewerSchema(ctx context.Context) (bool, string, error) {
	stored, ok, err := s.Setting(ctx, SettingVersion)
	if err != nil {
		return false, "", err
	}
	if !ok {
		return false, "", nil
	}
	return stored > SchemaVersion, stored, nil
}
