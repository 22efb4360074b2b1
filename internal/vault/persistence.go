package vault

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lovincyrus/darkcyber-vault/internal/logging"
	"github.com/lovincyrus/darkcyber-vault/internal/metrics"
)

// FilesKey is the storage slot holding the serialized file list.
const FilesKey = "darkcyber_vault_files"

// KV is the key/value slot the file list lives in.
type KV interface {
	GetValue(key string) (string, bool, error)
	SetValue(key, value string) error
}

// Persistence reads and writes the whole file list as one JSON document.
type Persistence struct {
	kv      KV
	log     zerolog.Logger
	metrics metrics.Recorder
}

func NewPersistence(kv KV, log zerolog.Logger, rec metrics.Recorder) *Persistence {
	if rec == nil {
		rec = metrics.Noop()
	}
	return &Persistence{
		kv:      kv,
		log:     logging.Component(log, "persistence"),
		metrics: rec,
	}
}

// Load returns the saved list. ok is false when nothing was saved or the
// saved value cannot be decoded.
func (p *Persistence) Load() (files []FileRecord, ok bool) {
	raw, found, err := p.kv.GetValue(FilesKey)
	if err != nil {
		p.log.Warn().Err(err).Msg("reading file list")
		return nil, false
	}
	if !found {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		p.log.Warn().Err(err).Msg("stored file list is not parseable")
		return nil, false
	}
	// A saved "null" still counts as missing.
	if files == nil {
		return nil, false
	}
	return files, true
}

// Save overwrites the slot with files.
func (p *Persistence) Save(files []FileRecord) error {
	start := time.Now()
	defer func() { p.metrics.ObservePersistence(time.Since(start)) }()

	if files == nil {
		files = []FileRecord{}
	}
	buf, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encoding file list: %w", err)
	}
	if err := p.kv.SetValue(FilesKey, string(buf)); err != nil {
		return fmt.Errorf("writing file list: %w", err)
	}
	return nil
}
