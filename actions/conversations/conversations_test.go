package conversations

import (
	"context"
	"reflect"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/platform/helpscout"
)

func parseFlags(t *testing.T, args ...string) (helpscout.NewConversation, error) {
	t.Helper()

	var (
		conv     helpscout.NewConversation
		parseErr error
	)

	cmd := &cli.Command{
		Name:  "create",
		Flags: createFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			conv, parseErr = conversationFromFlags(cmd)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), append([]string{"create"}, args...)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return conv, parseErr
}

func TestConversationFromFlags(t *testing.T) {
	five := 5

	tests := []struct {
		name string
		args []string
		want helpscout.NewConversation
	}{
		{
			name: "customer by id",
			args: []string{"--mailbox", "7", "--subject", "Hi", "--body", "Hello", "--customer-id", "42"},
			want: helpscout.NewConversation{
				Subject:   "Hi",
				Body:      "Hello",
				MailboxID: 7,
				Customer:  helpscout.CustomerByID("42"),
			},
		},
		{
			name: "customer by email with assignee",
			args: []string{"-m", "7", "-s", "Hi", "-b", "Hello", "--customer-email", "jane@example.com", "--assign-to", "5"},
			want: helpscout.NewConversation{
				Subject:   "Hi",
				Body:      "Hello",
				MailboxID: 7,
				Customer:  helpscout.CustomerByEmail("jane@example.com"),
				AssignTo:  &five,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(t, tt.args...)
			if err != nil {
				t.Fatalf("conversationFromFlags: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConversationFromFlagsAssigneeZero(t *testing.T) {
	got, err := parseFlags(t, "-m", "7", "-s", "Hi", "-b", "Hello", "--customer-id", "42", "--assign-to", "0")
	if err != nil {
		t.Fatalf("conversationFromFlags: %v", err)
	}
	if got.AssignTo == nil || *got.AssignTo != 0 {
		t.Fatalf("AssignTo = %v, want explicit 0", got.AssignTo)
	}
}

func TestConversationFromFlagsCustomerRequired(t *testing.T) {
	tests := map[string][]string{
		"neither": {"-m", "7", "-s", "Hi", "-b", "Hello"},
		"both":    {"-m", "7", "-s", "Hi", "-b", "Hello", "--customer-id", "42", "--customer-email", "jane@example.com"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := parseFlags(t, args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
