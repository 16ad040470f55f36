package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/PiotrWarzachowski/go-helpscout-cli/actions/conversations"
	"github.com/PiotrWarzachowski/go-helpscout-cli/actions/customers"
	"github.com/PiotrWarzachowski/go-helpscout-cli/actions/login"
	"github.com/PiotrWarzachowski/go-helpscout-cli/actions/mailboxes"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "go-helpscout-cli",
		Usage:   "Help Scout CLI tool",
		Version: "0.0.1-prerelease",
		Action: func(context.Context, *cli.Command) error {
			fmt.Println("Help Scout CLI - Use 'go-helpscout-cli help' for available commands")
			return nil
		},
		Commands: []*cli.Command{
			login.LoginCommand,
			login.LogoutCommand,
			login.StatusCommand,
			mailboxes.MailboxesCommand,
			customers.CustomersCommand,
			conversations.ConversationsCommand,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
