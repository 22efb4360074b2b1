package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lovincyrus/darkcyber-vault/internal/ai"
	"github.com/lovincyrus/darkcyber-vault/internal/crypto"
	"github.com/lovincyrus/darkcyber-vault/internal/logging"
	"github.com/lovincyrus/darkcyber-vault/internal/metrics"
	"github.com/lovincyrus/darkcyber-vault/internal/store"
)

var (
	ErrFileTooLarge   = errors.New("file exceeds the upload limit")
	ErrInvalidUpload  = errors.New("upload has no file name")
	ErrNotFound       = errors.New("file not found")
	ErrScanInProgress = errors.New("file is already being scanned")
	ErrChatBusy       = errors.New("assistant is still responding")
	ErrEmptyMessage   = errors.New("message is empty")
)

// Greeting opens every conversation.
const Greeting = "System online. I am your DarkCyber Vault Assistant. How can I secure your data today?"

const emptyReply = "Communication error."

// Activity actions.
const (
	ActionSeed   = "seed"
	ActionUpload = "upload"
	ActionDelete = "delete"
	ActionScan   = "scan"
)

// Extensions are matched case-insensitively.
var codeExtensions = map[string]bool{
	"js": true, "ts": true, "py": true, "c": true, "cpp": true, "go": true,
}

// Assistant is the AI surface the vault depends on.
type Assistant interface {
	AnalyzeSecurity(ctx context.Context, name, mimeType, content string) *ai.ScanResult
	Summarize(ctx context.Context, name, content string) string
	Chat(ctx context.Context, history []ai.Turn, message string) string
}

// ActivityRecorder appends to and reads the activity log.
type ActivityRecorder interface {
	LogActivity(entry store.ActivityEntry) error
	GetActivity(limit int) ([]store.ActivityEntry, error)
	ActivityCount() (int, error)
}

// Vault owns the file list, the scan markers and the assistant conversation.
// Its lock is never held across an AI call.
type Vault struct {
	mu       sync.RWMutex
	files    []FileRecord
	scanning map[string]struct{}
	chat     []ChatMessage
	chatBusy bool

	persist  *Persistence
	ai       Assistant
	activity ActivityRecorder
	limits   Limits
	log      zerolog.Logger
	metrics  metrics.Recorder

	now   func() time.Time
	newID func() string
}

// New creates a Vault. activity and rec may be nil. Call Initialize before use.
func New(persist *Persistence, assistant Assistant, activity ActivityRecorder, limits Limits, log zerolog.Logger, rec metrics.Recorder) *Vault {
	if rec == nil {
		rec = metrics.Noop()
	}
	if limits.MaxUploadBytes <= 0 {
		limits.MaxUploadBytes = DefaultLimits.MaxUploadBytes
	}
	if limits.TotalCapacity <= 0 {
		limits.TotalCapacity = DefaultLimits.TotalCapacity
	}
	return &Vault{
		scanning: make(map[string]struct{}),
		persist:  persist,
		ai:       assistant,
		activity: activity,
		limits:   limits,
		log:      logging.Component(log, "vault"),
		metrics:  rec,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Initialize loads the persisted list, seeding it when nothing usable is
// stored, and starts a fresh conversation.
func (v *Vault) Initialize() {
	v.mu.Lock()
	defer v.mu.Unlock()

	files, ok := v.persist.Load()
	if !ok {
		v.log.Info().Msg("no stored file list, seeding vault")
		files = []FileRecord{seedRecord(v.now())}
		v.files = files
		v.persistLocked()
		v.record(ActionSeed, files[0].ID, files[0].Name)
	} else {
		v.files = files
	}
	v.chat = []ChatMessage{{Role: RoleAssistant, Content: Greeting, Timestamp: v.now()}}
	v.scanning = make(map[string]struct{})
	v.updateGauges()
	v.log.Info().Int("files", len(v.files)).Msg("vault initialized")
}

func seedRecord(now time.Time) FileRecord {
	return FileRecord{
		ID:            "1",
		Name:          "Manifesto_Alpha.txt",
		Size:          24500,
		Type:          "text/plain",
		Category:      CategoryDocument,
		UploadDate:    now.UTC(),
		IsEncrypted:   true,
		SecurityScore: intPtr(92),
		AISummary:     "A high-level overview of the Alpha protocol operations.",
	}
}

// Upload stores a new file at the head of the list. Documents and code are
// summarized before insertion.
func (v *Vault) Upload(ctx context.Context, req UploadRequest) (FileRecord, error) {
	if int64(len(req.Data)) > v.limits.MaxUploadBytes {
		return FileRecord{}, ErrFileTooLarge
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return FileRecord{}, ErrInvalidUpload
	}

	rec := FileRecord{
		ID:          v.newID(),
		Name:        name,
		Size:        int64(len(req.Data)),
		Type:        req.Type,
		Category:    DeriveCategory(req.Type, name),
		UploadDate:  v.now().UTC(),
		IsEncrypted: true,
		Checksum:    crypto.Fingerprint(req.Data),
		Data:        base64.StdEncoding.EncodeToString(req.Data),
	}

	if rec.Category == CategoryDocument || rec.Category == CategoryCode {
		rec.AISummary = v.ai.Summarize(ctx, rec.Name, string(req.Data))
	}

	v.mu.Lock()
	v.files = append([]FileRecord{rec}, v.files...)
	v.persistLocked()
	v.updateGauges()
	v.mu.Unlock()

	v.record(ActionUpload, rec.ID, rec.Name)
	v.log.Info().Str("id", rec.ID).Str("name", rec.Name).Str("category", string(rec.Category)).Int64("size", rec.Size).Msg("file uploaded")
	return rec.clone(), nil
}

// DeriveCategory classifies a file by MIME type, then by extension.
func DeriveCategory(mimeType, name string) Category {
	switch {
	case strings.Contains(mimeType, "image"):
		return CategoryImage
	case strings.Contains(mimeType, "text"):
		return CategoryDocument
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if codeExtensions[ext] {
		return CategoryCode
	}
	return CategoryOther
}

// Delete removes the record with id. Returns false if there was none.
func (v *Vault) Delete(id string) bool {
	v.mu.Lock()
	idx := v.indexLocked(id)
	if idx < 0 {
		v.mu.Unlock()
		return false
	}
	name := v.files[idx].Name
	v.files = append(v.files[:idx:idx], v.files[idx+1:]...)
	v.persistLocked()
	v.updateGauges()
	v.mu.Unlock()

	v.record(ActionDelete, id, name)
	v.log.Info().Str("id", id).Msg("file deleted")
	return true
}

// Scan runs a security analysis on a record and folds the result into it.
// A failed analysis leaves the record as it was.
func (v *Vault) Scan(ctx context.Context, id string) (FileRecord, error) {
	v.mu.Lock()
	idx := v.indexLocked(id)
	if idx < 0 {
		v.mu.Unlock()
		return FileRecord{}, ErrNotFound
	}
	if _, busy := v.scanning[id]; busy {
		v.mu.Unlock()
		return FileRecord{}, ErrScanInProgress
	}
	v.scanning[id] = struct{}{}
	target := v.files[idx].clone()
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		delete(v.scanning, id)
		v.mu.Unlock()
	}()

	result := v.ai.AnalyzeSecurity(ctx, target.Name, target.Type, target.Data)

	v.mu.Lock()
	idx = v.indexLocked(id)
	if idx < 0 {
		v.mu.Unlock()
		v.log.Info().Str("id", id).Msg("file deleted during scan, dropping result")
		return FileRecord{}, ErrNotFound
	}
	if result == nil {
		out := v.files[idx].clone()
		v.mu.Unlock()
		v.log.Warn().Str("id", id).Msg("scan produced no result")
		return out, nil
	}

	score := 100
	if result.RiskScore != nil {
		score = clampScore(100 - *result.RiskScore)
	}
	v.files[idx].SecurityScore = intPtr(score)
	if result.ThreatSummary != "" {
		v.files[idx].AISummary = result.ThreatSummary
	}
	out := v.files[idx].clone()
	v.persistLocked()
	v.updateGauges()
	v.mu.Unlock()

	v.record(ActionScan, id, result.Recommendation)
	v.log.Info().Str("id", id).Int("score", score).Msg("file scanned")
	return out, nil
}

func clampScore(f float64) int {
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Search returns records whose name contains query, case-insensitively.
func (v *Vault) Search(query string) []FileRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]FileRecord, 0, len(v.files))
	for _, f := range v.files {
		if q == "" || strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f.clone())
		}
	}
	return out
}

// Files returns a copy of the full list, newest first.
func (v *Vault) Files() []FileRecord {
	return v.Search("")
}

// Get returns the record with id.
func (v *Vault) Get(id string) (FileRecord, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	idx := v.indexLocked(id)
	if idx < 0 {
		return FileRecord{}, ErrNotFound
	}
	return v.files[idx].clone(), nil
}

// Stats derives statistics from the current list.
func (v *Vault) Stats() Statistics {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return DeriveStatistics(v.files, v.limits.TotalCapacity)
}

// DeriveStatistics computes usage and threat level for files. Any score
// below 50 raises the level to Moderate.
func DeriveStatistics(files []FileRecord, capacity int64) Statistics {
	st := Statistics{
		TotalStorage: capacity,
		FileCount:    len(files),
		ThreatLevel:  ThreatLow,
	}
	for _, f := range files {
		st.UsedStorage += f.Size
		if f.SecurityScore != nil && *f.SecurityScore < 50 {
			st.ThreatLevel = ThreatModerate
		}
	}
	return st
}

// Limits returns the configured upload limit and capacity.
func (v *Vault) Limits() Limits {
	return v.limits
}

// Scanning returns the ids currently being scanned.
func (v *Vault) Scanning() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]string, 0, len(v.scanning))
	for id := range v.scanning {
		ids = append(ids, id)
	}
	return ids
}

func (v *Vault) IsScanning(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.scanning[id]
	return ok
}

// Conversation returns a copy of the chat so far.
func (v *Vault) Conversation() []ChatMessage {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]ChatMessage(nil), v.chat...)
}

// ChatBusy reports whether a message is awaiting its reply.
func (v *Vault) ChatBusy() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.chatBusy
}

// SendMessage appends text to the conversation, asks the assistant and
// appends its reply. Only one message may be in flight at a time.
func (v *Vault) SendMessage(ctx context.Context, text string) (ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ChatMessage{}, ErrEmptyMessage
	}

	v.mu.Lock()
	if v.chatBusy {
		v.mu.Unlock()
		return ChatMessage{}, ErrChatBusy
	}
	history := make([]ai.Turn, 0, len(v.chat))
	for _, m := range v.chat {
		role := ai.RoleUser
		if m.Role == RoleAssistant {
			role = ai.RoleModel
		}
		history = append(history, ai.Turn{Role: role, Text: m.Content})
	}
	v.chat = append(v.chat, ChatMessage{Role: RoleUser, Content: text, Timestamp: v.now()})
	v.chatBusy = true
	v.mu.Unlock()

	reply := v.ai.Chat(ctx, history, text)
	if strings.TrimSpace(reply) == "" {
		reply = emptyReply
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	msg := ChatMessage{Role: RoleAssistant, Content: reply, Timestamp: v.now()}
	v.chat = append(v.chat, msg)
	v.chatBusy = false
	return msg, nil
}

// Activity returns the most recent log entries, newest first.
func (v *Vault) Activity(limit int) ([]store.ActivityEntry, error) {
	if v.activity == nil {
		return []store.ActivityEntry{}, nil
	}
	return v.activity.GetActivity(limit)
}

// ActivityCount returns the total number of log entries.
func (v *Vault) ActivityCount() (int, error) {
	if v.activity == nil {
		return 0, nil
	}
	return v.activity.ActivityCount()
}

func (v *Vault) indexLocked(id string) int {
	for i := range v.files {
		if v.files[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the list; failures are logged and the in-memory list
// stays authoritative.
func (v *Vault) persistLocked() {
	snapshot := make([]FileRecord, len(v.files))
	copy(snapshot, v.files)
	if err := v.persist.Save(snapshot); err != nil {
		v.log.Error().Err(err).Msg("persisting file list")
	}
}

func (v *Vault) updateGauges() {
	var used int64
	for _, f := range v.files {
		used += f.Size
	}
	v.metrics.SetFiles(len(v.files), used)
}

func (v *Vault) record(action, fileID, detail string) {
	if v.activity == nil {
		return
	}
	err := v.activity.LogActivity(store.ActivityEntry{
		Action:    action,
		FileID:    fileID,
		Detail:    detail,
		CreatedAt: v.now(),
	})
	if err != nil {
		v.log.Warn().Err(err).Str("action", action).Msg("recording activity")
	}
}
