package main

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
)

var httpClient = &http.Client{Timeout: 2 * time.Minute}

func serverAddr(c *cli.Context) string {
	return strings.TrimRight(c.String("addr"), "/")
}

// apiRequest makes a JSON request to the vault server.
func apiRequest(c *cli.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(c.Context, method, serverAddr(c)+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return httpClient.Do(req)
}

// uploadFile posts the file at path as multipart field "file".
func uploadFile(c *cli.Context, path string) (*http.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	if ctype := mime.TypeByExtension(filepath.Ext(path)); ctype != "" {
		h.Set("Content-Type", ctype)
	} else {
		h.Set("Content-Type", http.DetectContentType(data))
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(c.Context, http.MethodPost, serverAddr(c)+"/vault/files", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return httpClient.Do(req)
}

// apiResult decodes a JSON response or returns the error.
func apiResult(resp *http.Response, target any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if target != nil {
		return json.NewDecoder(resp.Body).Decode(target)
	}
	return nil
}

func unreachable(c *cli.Context, err error) error {
	return fmt.Errorf("cannot reach vault server at %s (is 'dcvault serve' running?): %w", serverAddr(c), err)
}

func requireArg(c *cli.Context, name string) (string, error) {
	arg := c.Args().First()
	if arg == "" {
		return "", fmt.Errorf("missing %s\nUsage: dcvault %s %s", name, c.Command.Name, c.Command.ArgsUsage)
	}
	return arg, nil
}
