package main

import (
	"fmt"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/lovincyrus/darkcyber-vault/internal/ui"
	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

func cmdList(c *cli.Context) error {
	path := "/vault/files"
	if q := c.Args().First(); q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	resp, err := apiRequest(c, "GET", path, nil)
	if err != nil {
		return unreachable(c, err)
	}

	var result struct {
		Files    []vault.FileRecord `json:"files"`
		Scanning []string           `json:"scanning"`
	}
	if err := apiResult(resp, &result); err != nil {
		return err
	}

	if len(result.Files) == 0 {
		fmt.Println(ui.EmptyListText)
		return nil
	}
	printFiles(result.Files, result.Scanning)
	return nil
}

func printFiles(files []vault.FileRecord, scanning []string) {
	busy := make(map[string]bool, len(scanning))
	for _, id := range scanning {
		busy[id] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tUPLOADED\tSCORE\tSUMMARY")
	for _, f := range files {
		item := ui.NewFileItem(f, busy[f.ID])
		score := item.Score
		if item.Scanning {
			score = "SCANNING..."
		} else if score == "" {
			score = "-"
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%s\n",
			f.ID, item.Icon, item.Name, item.Size, item.Age, score, truncate(item.Summary, 60))
	}
	w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func cmdUpload(c *cli.Context) error {
	path, err := requireArg(c, "file path")
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}

	resp, err := uploadFile(c, path)
	if err != nil {
		return unreachable(c, err)
	}
	var rec vault.FileRecord
	if err := apiResult(resp, &rec); err != nil {
		return err
	}

	fmt.Printf("Uploaded %s (%s, %s)\n", rec.Name, rec.ID, rec.Category)
	if rec.AISummary != "" {
		fmt.Printf("Summary:  %s\n", rec.AISummary)
	}
	return nil
}

func cmdDelete(c *cli.Context) error {
	id, err := requireArg(c, "file id")
	if err != nil {
		return err
	}
	resp, err := apiRequest(c, "DELETE", "/vault/files/"+url.PathEscape(id), nil)
	if err != nil {
		return unreachable(c, err)
	}
	if err := apiResult(resp, nil); err != nil {
		return err
	}
	fmt.Printf("Purged %s\n", id)
	return nil
}

func cmdScan(c *cli.Context) error {
	id, err := requireArg(c, "file id")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Analyzing...")
	resp, err := apiRequest(c, "POST", "/vault/files/"+url.PathEscape(id)+"/scan", nil)
	if err != nil {
		return unreachable(c, err)
	}
	var rec vault.FileRecord
	if err := apiResult(resp, &rec); err != nil {
		return err
	}

	item := ui.NewFileItem(rec, false)
	if item.Score == "" {
		item.Score = "unscored"
	}
	fmt.Printf("%s  %s\n", item.Name, item.Score)
	if rec.AISummary != "" {
		fmt.Printf("Summary:  %s\n", rec.AISummary)
	}
	return nil
}
