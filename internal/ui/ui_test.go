package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

func intp(n int) *int { return &n }

type fakeState struct {
	files    []vault.FileRecord
	scanning []string
	chat     []vault.ChatMessage
	busy     bool
}

func (f fakeState) Search(q string) []vault.FileRecord {
	if q == "" {
		return f.files
	}
	return nil
}
func (f fakeState) Stats() vault.Statistics {
	return vault.DeriveStatistics(f.files, vault.DefaultLimits.TotalCapacity)
}
func (f fakeState) Scanning() []string                { return f.scanning }
func (f fakeState) Conversation() []vault.ChatMessage { return f.chat }
func (f fakeState) ChatBusy() bool                    { return f.busy }

func TestButtonClass(t *testing.T) {
	assert.Equal(t, "btn btn-primary btn-md", Button{}.Class())
	assert.Equal(t, "btn btn-danger btn-lg", Button{Variant: VariantDanger, Size: SizeLg}.Class())
	assert.True(t, Button{Loading: true}.Disabled())
}

func TestStatCards(t *testing.T) {
	st := vault.Statistics{
		TotalStorage: vault.DefaultLimits.TotalCapacity,
		UsedStorage:  24500,
		FileCount:    1,
		ThreatLevel:  vault.ThreatLow,
	}
	cards := StatCards(st)
	require.Len(t, cards, 4)

	assert.Equal(t, "Vault Capacity", cards[0].Label)
	assert.Equal(t, "0.0 MB", cards[0].Value)
	assert.Equal(t, "OF 10 GB", cards[0].Trend)
	assert.Equal(t, "Encrypted Assets", cards[1].Label)
	assert.Equal(t, "1", cards[1].Value)
	assert.Equal(t, "Threat Level", cards[2].Label)
	assert.Equal(t, ColorPrimary, cards[2].Color)
	assert.Equal(t, "Active Nodes", cards[3].Label)
	assert.Equal(t, "24", cards[3].Value)
	assert.Equal(t, "UPTIME 99.9%", cards[3].Trend)

	st.ThreatLevel = vault.ThreatModerate
	assert.Equal(t, ColorDanger, StatCards(st)[2].Color)
}

func TestFormatStorage(t *testing.T) {
	assert.Equal(t, "0.0 MB", FormatStorage(0))
	assert.Equal(t, "5.0 MB", FormatStorage(5*1024*1024))
	assert.Equal(t, "2.5 GB", FormatStorage(2560*1024*1024))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(0))
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "2 KB", FormatFileSize(2048))
	assert.Equal(t, "23.93 KB", FormatFileSize(24500))
	assert.Equal(t, "1.5 MB", FormatFileSize(1536*1024))
	assert.Equal(t, "2048 GB", FormatFileSize(2<<40))
}

func TestScoreClass(t *testing.T) {
	assert.Equal(t, "score-none", ScoreClass(nil))
	assert.Equal(t, "score-good", ScoreClass(intp(81)))
	assert.Equal(t, "score-fair", ScoreClass(intp(80)))
	assert.Equal(t, "score-fair", ScoreClass(intp(51)))
	assert.Equal(t, "score-poor", ScoreClass(intp(50)))
	assert.Equal(t, "score-poor", ScoreClass(intp(0)))
}

func TestNewFileItem(t *testing.T) {
	rec := vault.FileRecord{
		ID:            "abc",
		Name:          "notes.txt",
		Size:          2048,
		Category:      vault.CategoryDocument,
		UploadDate:    time.Now().Add(-time.Hour),
		IsEncrypted:   true,
		SecurityScore: intp(70),
		AISummary:     "Plain notes.",
	}
	item := NewFileItem(rec, true)

	assert.Equal(t, "NOTES.TXT", item.Name)
	assert.Equal(t, "📄", item.Icon)
	assert.Equal(t, "2 KB", item.Size)
	assert.Equal(t, "[ENCRYPTED_AES_256]", item.Badge)
	assert.Equal(t, "S_LEVEL: 70%", item.Score)
	assert.Equal(t, "score-fair", item.ScoreClass)
	assert.Equal(t, "1 hour ago", item.Age)
	assert.True(t, item.Scan.Loading)
	assert.Equal(t, "/ui/files/abc/scan", item.Scan.Action)
	assert.Equal(t, "/ui/files/abc/delete", item.Delete.Action)
}

func TestCategoryIcon(t *testing.T) {
	assert.Equal(t, "🖼️", CategoryIcon(vault.CategoryImage))
	assert.Equal(t, "💻", CategoryIcon(vault.CategoryCode))
	assert.Equal(t, "📁", CategoryIcon(vault.CategoryOther))
}

func TestNewChatPanel(t *testing.T) {
	ts := time.Date(2025, 1, 1, 9, 5, 0, 0, time.Local)
	panel := NewChatPanel([]vault.ChatMessage{
		{Role: vault.RoleAssistant, Content: vault.Greeting, Timestamp: ts},
		{Role: vault.RoleUser, Content: "hi", Timestamp: ts},
	}, true)

	require.Len(t, panel.Lines, 2)
	assert.Equal(t, "09:05", panel.Lines[0].Time)
	assert.False(t, panel.Lines[0].FromUser)
	assert.True(t, panel.Lines[1].FromUser)
	assert.True(t, panel.Busy)
	assert.True(t, panel.Send.Disabled())
}

func TestBuildPage_Empty(t *testing.T) {
	p := BuildPage(fakeState{}, "", "")
	assert.Empty(t, p.Files)
	assert.Equal(t, EmptyListText, p.Empty)
	assert.False(t, p.Refresh)
	assert.Equal(t, "Low", p.Stats[2].Value)
}

func TestBuildPage_ScanningRefreshes(t *testing.T) {
	s := fakeState{
		files:    []vault.FileRecord{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}},
		scanning: []string{"2"},
	}
	p := BuildPage(s, "", "")
	require.Len(t, p.Files, 2)
	assert.False(t, p.Files[0].Scanning)
	assert.True(t, p.Files[1].Scanning)
	assert.True(t, p.Refresh)
	assert.Empty(t, p.Empty)
}

func TestRender(t *testing.T) {
	s := fakeState{
		files: []vault.FileRecord{{
			ID: "1", Name: "Manifesto_Alpha.txt", Size: 24500, Category: vault.CategoryDocument,
			IsEncrypted: true, SecurityScore: intp(92), AISummary: "<b>overview</b>",
		}},
		chat: []vault.ChatMessage{{Role: vault.RoleAssistant, Content: vault.Greeting, Timestamp: time.Now()}},
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, BuildPage(s, "", vault.DefaultLimits.UploadNotice())))

	html := buf.String()
	assert.Contains(t, html, "MANIFESTO_ALPHA.TXT")
	assert.Contains(t, html, "S_LEVEL: 92%")
	assert.Contains(t, html, "&lt;b&gt;overview&lt;/b&gt;")
	assert.Contains(t, html, vault.DefaultLimits.UploadNotice())
	assert.Contains(t, html, "System online.")
	assert.Contains(t, html, `action="/ui/files/1/scan"`)
	assert.NotContains(t, html, EmptyListText)
}

func TestRender_EmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, BuildPage(fakeState{}, "zzz", "")))
	assert.Contains(t, buf.String(), EmptyListText)
	assert.Contains(t, buf.String(), `value="zzz"`)
}
