package mailboxes

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/PiotrWarzachowski/go-helpscout-cli/providers"
)

// MailboxesCommand lists the mailboxes visible to the app
var MailboxesCommand = &cli.Command{
	Name:    "mailboxes",
	Aliases: []string{"mb", "inboxes"},
	Usage:   "List your Help Scout mailboxes",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Follow pagination and list every mailbox",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug output",
		},
	},
	Action: mailboxesAction,
}

func mailboxesAction(ctx context.Context, cmd *cli.Command) error {
	provider, err := providers.NewHelpScoutProvider(ctx, cmd.Bool("debug"))
	if err != nil {
		return err
	}

	mailboxes, err := provider.Mailboxes(ctx, cmd.Bool("all"))
	if err != nil {
		return fmt.Errorf("failed to fetch mailboxes: %w", err)
	}

	if len(mailboxes) == 0 {
		fmt.Println("📭 No mailboxes found")
		return nil
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  📬 Mailboxes: %d\n", len(mailboxes))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	for _, m := range mailboxes {
		fmt.Printf("#%d %s\n", m.ID, m.Name)
		fmt.Printf("   ├─ Email:   %s\n", m.Email)
		fmt.Printf("   ├─ Slug:    %s\n", m.Slug)
		fmt.Printf("   └─ Updated: %s\n", m.UpdatedAt.Local().Format("Jan 2 2006, 3:04 PM"))
		fmt.Println()
	}

	return nil
}
