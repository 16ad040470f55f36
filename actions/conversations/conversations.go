package conversations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/platform/helpscout"
	"github.com/PiotrWarzachowski/go-helpscout-cli/providers"
)

// ConversationsCommand opens conversations on behalf of customers
var ConversationsCommand = &cli.Command{
	Name:    "conversations",
	Aliases: []string{"conv", "tickets"},
	Usage:   "Open Help Scout conversations",
	Commands: []*cli.Command{
		{
			Name:   "create",
			Usage:  "Open an email conversation started by a customer",
			Flags:  createFlags(),
			Action: createConversationAction,
		},
	},
}

func createFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     "mailbox",
			Aliases:  []string{"m"},
			Usage:    "Mailbox id the conversation belongs to",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "subject",
			Aliases:  []string{"s"},
			Usage:    "Conversation subject",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "body",
			Aliases:  []string{"b"},
			Usage:    "Text of the customer's first message",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "customer-id",
			Usage: "Existing customer id",
		},
		&cli.StringFlag{
			Name:  "customer-email",
			Usage: "Customer email, used instead of --customer-id",
		},
		&cli.IntFlag{
			Name:  "assign-to",
			Usage: "Help Scout user id to assign the conversation to",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug output",
		},
	}
}

func createConversationAction(ctx context.Context, cmd *cli.Command) error {
	conv, err := conversationFromFlags(cmd)
	if err != nil {
		return err
	}

	provider, err := providers.NewHelpScoutProvider(ctx, cmd.Bool("debug"))
	if err != nil {
		return err
	}

	if err := provider.CreateConversation(ctx, conv); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	fmt.Printf("✅ Conversation %q opened in mailbox #%d\n", conv.Subject, conv.MailboxID)
	if conv.AssignTo != nil {
		fmt.Printf("   └─ Assigned to user #%d\n", *conv.AssignTo)
	}
	return nil
}

func conversationFromFlags(cmd *cli.Command) (helpscout.NewConversation, error) {
	conv := helpscout.NewConversation{
		Subject:   cmd.String("subject"),
		Body:      cmd.String("body"),
		MailboxID: cmd.Int("mailbox"),
	}

	id := strings.TrimSpace(cmd.String("customer-id"))
	email := strings.TrimSpace(cmd.String("customer-email"))

	switch {
	case id != "" && email != "":
		return conv, errors.New("use either --customer-id or --customer-email, not both")
	case id != "":
		conv.Customer = helpscout.CustomerByID(id)
	case email != "":
		conv.Customer = helpscout.CustomerByEmail(email)
	default:
		return conv, errors.New("one of --customer-id or --customer-email is required")
	}

	if cmd.IsSet("assign-to") {
		assignee := cmd.Int("assign-to")
		conv.AssignTo = &assignee
	}

	return conv, nil
}
