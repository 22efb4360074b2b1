package main

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/urfave/cli/v2"
)

func cmdUI(c *cli.Context) error {
	// Verify the server is reachable before handing off to the browser
	resp, err := apiRequest(c, "GET", "/health", nil)
	if err != nil {
		return unreachable(c, err)
	}
	resp.Body.Close()

	url := serverAddr(c) + "/ui"

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}

	if cmd != nil {
		if err := cmd.Start(); err == nil {
			fmt.Println("Opened vault dashboard in your browser.")
			return nil
		}
	}

	// Fallback: print URL
	fmt.Println("Open this URL in your browser:")
	fmt.Println()
	fmt.Println("  " + url)
	fmt.Println()
	return nil
}
