// Package ui builds the view-models of the vault dashboard and renders them
// as a server-side HTML page. View-models are pure functions of vault state.
package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

// Palette.
const (
	ColorPrimary   = "#00ff9d"
	ColorSecondary = "#bc13fe"
	ColorAccent    = "#00d4ff"
	ColorDanger    = "#ff4d4d"
)

// EmptyListText replaces the file list when nothing matches.
const EmptyListText = "No data recovered in this sector"

type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
	VariantDanger    Variant = "danger"
	VariantGhost     Variant = "ghost"
)

type Size string

const (
	SizeSm Size = "sm"
	SizeMd Size = "md"
	SizeLg Size = "lg"
)

// Button is a form submit control. A loading button is disabled and shows a
// spinner.
type Button struct {
	Label   string
	Variant Variant
	Size    Size
	Loading bool
	Action  string // form target; empty for buttons inside an existing form
}

// Class returns the CSS classes for the button's variant and size.
func (b Button) Class() string {
	v, s := b.Variant, b.Size
	if v == "" {
		v = VariantPrimary
	}
	if s == "" {
		s = SizeMd
	}
	return fmt.Sprintf("btn btn-%s btn-%s", v, s)
}

// Disabled mirrors Loading; a busy control never accepts a second submit.
func (b Button) Disabled() bool { return b.Loading }

type StatCard struct {
	Label string
	Value string
	Icon  string
	Trend string
	Color string
}

// StatCards derives the four dashboard cards.
func StatCards(st vault.Statistics) []StatCard {
	threatColor := ColorDanger
	if st.ThreatLevel == vault.ThreatLow {
		threatColor = ColorPrimary
	}
	return []StatCard{
		{Label: "Vault Capacity", Value: FormatStorage(st.UsedStorage), Icon: "💾", Trend: "OF " + FormatCapacity(st.TotalStorage), Color: ColorPrimary},
		{Label: "Encrypted Assets", Value: fmt.Sprint(st.FileCount), Icon: "📦", Trend: "+2 NEW", Color: ColorSecondary},
		{Label: "Threat Level", Value: string(st.ThreatLevel), Icon: "🛡️", Trend: "GLOBAL STATS", Color: threatColor},
		{Label: "Active Nodes", Value: "24", Icon: "⚡", Trend: "UPTIME 99.9%", Color: ColorAccent},
	}
}

// FormatStorage renders used bytes in MB below 1 GB and in GB above.
func FormatStorage(bytes int64) string {
	mb := float64(bytes) / (1024 * 1024)
	if mb < 1024 {
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", mb/1024)
}

// FormatCapacity renders a capacity as whole gigabytes when it is one.
func FormatCapacity(bytes int64) string {
	const gib = 1024 * 1024 * 1024
	if bytes > 0 && bytes%gib == 0 {
		return fmt.Sprintf("%d GB", bytes/gib)
	}
	return humanize.IBytes(uint64(bytes))
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a file size in 1024-based units with up to two
// decimals, trailing zeros dropped: 24500 is "23.93 KB", 2048 is "2 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizeUnits[i]
}

// FileItem is one row of the file list.
type FileItem struct {
	ID         string
	Name       string
	Icon       string
	Size       string
	Date       string
	Age        string
	Badge      string
	Score      string
	ScoreClass string
	Summary    string
	Scanning   bool
	Scan       Button
	Delete     Button
}

func NewFileItem(rec vault.FileRecord, scanning bool) FileItem {
	item := FileItem{
		ID:         rec.ID,
		Name:       strings.ToUpper(rec.Name),
		Icon:       CategoryIcon(rec.Category),
		Size:       FormatFileSize(rec.Size),
		Date:       rec.UploadDate.Local().Format("2006-01-02"),
		Age:        humanize.Time(rec.UploadDate),
		ScoreClass: ScoreClass(rec.SecurityScore),
		Summary:    rec.AISummary,
		Scanning:   scanning,
		Scan: Button{
			Label:   "ANALYSIS",
			Variant: VariantSecondary,
			Size:    SizeSm,
			Loading: scanning,
			Action:  "/ui/files/" + rec.ID + "/scan",
		},
		Delete: Button{
			Label:   "PURGE",
			Variant: VariantGhost,
			Size:    SizeSm,
			Action:  "/ui/files/" + rec.ID + "/delete",
		},
	}
	if rec.IsEncrypted {
		item.Badge = "[ENCRYPTED_AES_256]"
	}
	if rec.SecurityScore != nil {
		item.Score = fmt.Sprintf("S_LEVEL: %d%%", *rec.SecurityScore)
	}
	return item
}

func CategoryIcon(c vault.Category) string {
	switch c {
	case vault.CategoryDocument:
		return "📄"
	case vault.CategoryImage:
		return "🖼️"
	case vault.CategoryCode:
		return "💻"
	default:
		return "📁"
	}
}

// ScoreClass maps a security score to its color class.
func ScoreClass(score *int) string {
	switch {
	case score == nil:
		return "score-none"
	case *score > 80:
		return "score-good"
	case *score > 50:
		return "score-fair"
	default:
		return "score-poor"
	}
}

type ChatLine struct {
	Role     string
	Content  string
	Time     string
	FromUser bool
}

type ChatPanel struct {
	Lines []ChatLine
	Busy  bool
	Send  Button
}

func NewChatPanel(msgs []vault.ChatMessage, busy bool) ChatPanel {
	lines := make([]ChatLine, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, ChatLine{
			Role:     m.Role,
			Content:  m.Content,
			Time:     m.Timestamp.Local().Format("15:04"),
			FromUser: m.Role == vault.RoleUser,
		})
	}
	return ChatPanel{
		Lines: lines,
		Busy:  busy,
		Send:  Button{Label: "SEND", Variant: VariantSecondary, Size: SizeSm, Loading: busy},
	}
}

// State is the read side of the vault the page is derived from.
type State interface {
	Search(query string) []vault.FileRecord
	Stats() vault.Statistics
	Scanning() []string
	Conversation() []vault.ChatMessage
	ChatBusy() bool
}

// Page is the whole dashboard.
type Page struct {
	Title  string
	Query  string
	Notice string
	Upload Button
	Stats  []StatCard
	Files  []FileItem
	Empty  string
	Chat   ChatPanel

	// Refresh asks the browser to poll while an operation is in flight.
	Refresh bool
}

// BuildPage derives the dashboard for query. notice, when set, is shown as a
// blocking alert.
func BuildPage(s State, query, notice string) Page {
	scanning := make(map[string]bool)
	for _, id := range s.Scanning() {
		scanning[id] = true
	}
	var items []FileItem
	for _, rec := range s.Search(query) {
		items = append(items, NewFileItem(rec, scanning[rec.ID]))
	}
	p := Page{
		Title:  "DARKCYBER_VAULT v1.0.4",
		Query:  query,
		Notice: notice,
		Upload: Button{Label: "UPLOAD NEW FILE", Variant: VariantPrimary, Size: SizeMd},
		Stats:  StatCards(s.Stats()),
		Files:  items,
		Chat:   NewChatPanel(s.Conversation(), s.ChatBusy()),
	}
	p.Refresh = len(scanning) > 0 || p.Chat.Busy
	if len(items) == 0 {
		p.Empty = EmptyListText
	}
	return p
}
