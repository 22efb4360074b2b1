package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

func cmdChat(c *cli.Context) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	if interactive {
		resp, err := apiRequest(c, "GET", "/vault/chat", nil)
		if err != nil {
			return unreachable(c, err)
		}
		var conv struct {
			Messages []vault.ChatMessage `json:"messages"`
		}
		if err := apiResult(resp, &conv); err != nil {
			return err
		}
		for _, m := range conv.Messages {
			printMessage(os.Stdout, m)
		}
		fmt.Println("(type 'exit' to leave)")
	}

	return chatLoop(c, os.Stdin, os.Stdout, interactive)
}

func chatLoop(c *cli.Context, in io.Reader, out io.Writer, interactive bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		resp, err := apiRequest(c, "POST", "/vault/chat", map[string]string{"message": line})
		if err != nil {
			return unreachable(c, err)
		}
		var reply vault.ChatMessage
		if err := apiResult(resp, &reply); err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		printMessage(out, reply)
	}
}

func printMessage(w io.Writer, m vault.ChatMessage) {
	who := "ASSISTANT"
	if m.Role == vault.RoleUser {
		who = "YOU"
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", m.Timestamp.Local().Format("15:04"), who, m.Content)
}
