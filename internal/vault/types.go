package vault

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Category is a coarse classification assigned once at upload time.
type Category string

const (
	CategoryDocument Category = "document"
	CategoryImage    Category = "image"
	CategoryCode     Category = "code"
	CategoryOther    Category = "other"
)

// ThreatLevel summarizes the vault's overall risk. High and Critical are
// reserved; DeriveStatistics only produces Low and Moderate.
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "Low"
	ThreatModerate ThreatLevel = "Moderate"
	ThreatHigh     ThreatLevel = "High"
	ThreatCritical ThreatLevel = "Critical"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FileRecord is one stored file.
type FileRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Size          int64     `json:"size"`
	Type          string    `json:"type"`
	Category      Category  `json:"category"`
	UploadDate    time.Time `json:"uploadDate"`
	IsEncrypted   bool      `json:"isEncrypted"`
	SecurityScore *int      `json:"securityScore,omitempty"`
	AISummary     string    `json:"aiSummary,omitempty"`
	Checksum      string    `json:"checksum,omitempty"`
	Data          string    `json:"data,omitempty"` // base64 payload
}

// Statistics is derived from the file list on demand.
type Statistics struct {
	TotalStorage int64       `json:"totalStorage"`
	UsedStorage  int64       `json:"usedStorage"`
	FileCount    int         `json:"fileCount"`
	ThreatLevel  ThreatLevel `json:"threatLevel"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// UploadRequest carries a user-selected file.
type UploadRequest struct {
	Name string
	Type string
	Data []byte
}

// Limits bounds uploads and sets the advertised capacity.
type Limits struct {
	MaxUploadBytes int64
	TotalCapacity  int64
}

// DefaultLimits is 5 MiB per upload and 10 GiB of capacity.
var DefaultLimits = Limits{
	MaxUploadBytes: 5 * 1024 * 1024,
	TotalCapacity:  10 * 1024 * 1024 * 1024,
}

// UploadNotice is shown when an upload exceeds MaxUploadBytes.
func (l Limits) UploadNotice() string {
	const mib = 1024 * 1024
	size := humanize.IBytes(uint64(l.MaxUploadBytes))
	if l.MaxUploadBytes%mib == 0 {
		size = fmt.Sprintf("%dMB", l.MaxUploadBytes/mib)
	}
	return fmt.Sprintf("Exceeds simulated upload limit (%s). Data integrity protection active.", size)
}

func intPtr(n int) *int { return &n }

func (r FileRecord) clone() FileRecord {
	if r.SecurityScore != nil {
		r.SecurityScore = intPtr(*r.SecurityScore)
	}
	return r
}
