package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/lovincyrus/darkcyber-vault/internal/store"
)

func cmdActivity(c *cli.Context) error {
	resp, err := apiRequest(c, "GET", fmt.Sprintf("/vault/activity?limit=%d", c.Int("limit")), nil)
	if err != nil {
		return unreachable(c, err)
	}

	var result struct {
		Entries []store.ActivityEntry `json:"entries"`
	}
	if err := apiResult(resp, &result); err != nil {
		return err
	}

	if len(result.Entries) == 0 {
		fmt.Println("No activity recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTION\tFILE\tDETAIL")
	for _, e := range result.Entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", humanize.Time(e.CreatedAt), e.Action, e.FileID, truncate(e.Detail, 60))
	}
	w.Flush()
	return nil
}
