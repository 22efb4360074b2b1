package main

import (
	"bytes"
	"flag"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/lovincyrus/darkcyber-vault/internal/ai"
	"github.com/lovincyrus/darkcyber-vault/internal/api"
	"github.com/lovincyrus/darkcyber-vault/internal/store"
	"github.com/lovincyrus/darkcyber-vault/internal/ui"
	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

func startServer(t *testing.T) (*httptest.Server, *vault.Vault) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := ai.New(ai.Offline{}, nil, ai.Options{}, zerolog.Nop(), nil)
	v := vault.New(vault.NewPersistence(db, zerolog.Nop(), nil), client, db, vault.DefaultLimits, zerolog.Nop(), nil)
	v.Initialize()

	srv := httptest.NewServer(api.New(v, ":0", zerolog.Nop(), nil).Handler())
	t.Cleanup(srv.Close)
	return srv, v
}

func run(t *testing.T, srv *httptest.Server, args ...string) error {
	t.Helper()
	return newApp().Run(append([]string{"dcvault", "--addr", srv.URL}, args...))
}

func TestCLI_FileLifecycle(t *testing.T) {
	srv, v := startServer(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("operational notes"), 0600))

	require.NoError(t, run(t, srv, "upload", path))
	files := v.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "notes.txt", files[0].Name)
	assert.Equal(t, vault.CategoryDocument, files[0].Category)
	assert.Equal(t, ai.SummaryUnavailable, files[0].AISummary)

	require.NoError(t, run(t, srv, "list"))
	require.NoError(t, run(t, srv, "list", "notes"))
	require.NoError(t, run(t, srv, "status"))

	// Offline analysis leaves the record untouched
	require.NoError(t, run(t, srv, "scan", "1"))
	rec, err := v.Get("1")
	require.NoError(t, err)
	assert.Equal(t, 92, *rec.SecurityScore)

	require.NoError(t, run(t, srv, "delete", files[0].ID))
	assert.Len(t, v.Files(), 1)

	require.NoError(t, run(t, srv, "activity", "--limit", "5"))
}

func TestCLI_Errors(t *testing.T) {
	srv, _ := startServer(t)

	err := run(t, srv, "delete", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")

	assert.Error(t, run(t, srv, "scan"))
	assert.Error(t, run(t, srv, "upload", filepath.Join(t.TempDir(), "absent.txt")))
}

func TestCLI_Unreachable(t *testing.T) {
	err := newApp().Run([]string{"dcvault", "--addr", "http://127.0.0.1:1", "status"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reach vault server")
}

func TestChatLoop(t *testing.T) {
	srv, v := startServer(t)

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("addr", srv.URL, "")
	c := cli.NewContext(newApp(), set, nil)

	var out bytes.Buffer
	in := strings.NewReader("\nhello there\nexit\nnever sent\n")
	require.NoError(t, chatLoop(c, in, &out, false))

	assert.Contains(t, out.String(), "ASSISTANT: "+ai.ChatUnavailable)
	conv := v.Conversation()
	require.Len(t, conv, 3)
	assert.Equal(t, "hello there", conv[1].Content)
}

func TestRenderCards(t *testing.T) {
	st := vault.DeriveStatistics(nil, vault.DefaultLimits.TotalCapacity)
	out := renderCards(ui.StatCards(st))
	for _, want := range []string{"VAULT CAPACITY", "ENCRYPTED ASSETS", "THREAT LEVEL", "ACTIVE NODES", "OF 10 GB"} {
		assert.Contains(t, out, want)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
