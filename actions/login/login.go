package login

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/config"
	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/platform/helpscout"
	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/storage"
	"github.com/PiotrWarzachowski/go-helpscout-cli/providers"
)

// LoginCommand exchanges OAuth2 client credentials for an access token
var LoginCommand = &cli.Command{
	Name:  "login",
	Usage: "Authenticate with your Help Scout app credentials",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "client-id",
			Aliases: []string{"i"},
			Usage:   "Help Scout app ID",
		},
		&cli.StringFlag{
			Name:    "client-secret",
			Aliases: []string{"s"},
			Usage:   "Help Scout app secret (not recommended, use interactive prompt)",
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Request a new token even if a valid session exists",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug output",
		},
	},
	Action: loginAction,
}

var LogoutCommand = &cli.Command{
	Name:  "logout",
	Usage: "Forget the stored Help Scout session",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "clear-credentials",
			Usage: "Also delete the saved app ID and secret",
		},
	},
	Action: logoutAction,
}

var StatusCommand = &cli.Command{
	Name:   "status",
	Usage:  "Check current login status",
	Action: statusAction,
}

func loginAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(providers.EnvFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := providers.OpenStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize session storage: %w", err)
	}

	if !cmd.Bool("force") {
		stored, err := store.LoadSession()
		if err == nil && stored != nil && !stored.Expired(time.Now()) {
			fmt.Printf("✓ Already logged in with app %s\n", stored.ClientID)
			fmt.Printf("  Session storage: %s\n", store.GetBasePath())
			return nil
		}
	}

	creds, err := resolveCredentials(cmd, cfg, store)
	if err != nil {
		return err
	}

	logger := providers.NewLogger(cmd.Bool("debug") || cfg.Debug)

	fmt.Println("Logging in...")

	hs, err := helpscout.NewClient(ctx, creds, providers.ClientOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := store.SaveSession(hs.ToSession()); err != nil {
		fmt.Printf("⚠ Warning: Failed to save session: %v\n", err)
	}

	if err := store.SaveCredentials(creds.ClientID, creds.ClientSecret); err != nil {
		fmt.Printf("⚠ Warning: Failed to save credentials: %v\n", err)
	}

	fmt.Printf("\n✓ Successfully logged in with app %s\n", creds.ClientID)
	if tok := hs.Token(); tok != nil && !tok.Expiry.IsZero() {
		fmt.Printf("  Token expires: %s\n", tok.Expiry.Local().Format("Jan 2, 3:04 PM"))
	}
	fmt.Printf("  Session saved to: %s\n", store.GetBasePath())
	fmt.Println("  💾 Credentials cached for automatic token refresh")

	return nil
}

// resolveCredentials picks credentials from flags, then configuration, then
// the saved copy, and finally prompts for whatever is still missing.
func resolveCredentials(cmd *cli.Command, cfg *config.Config, store *storage.Storage) (helpscout.Credentials, error) {
	creds := helpscout.Credentials{
		ClientID:     cmd.String("client-id"),
		ClientSecret: cmd.String("client-secret"),
	}

	if creds.ClientID == "" && creds.ClientSecret == "" {
		if cfg.HasCredentials() {
			fmt.Printf("Using app %s from environment\n", cfg.ClientID)
			return helpscout.Credentials{ClientID: cfg.ClientID, ClientSecret: cfg.ClientSecret}, nil
		}

		saved, err := store.LoadCredentials()
		if err == nil && saved != nil && saved.ClientID != "" {
			fmt.Printf("💾 Saved credentials found for app %s\n", saved.ClientID)
			useSaved, _ := promptInput("Use saved credentials? [Y/n]: ")
			if answer := strings.ToLower(useSaved); answer == "" || answer == "y" || answer == "yes" {
				return helpscout.Credentials{ClientID: saved.ClientID, ClientSecret: saved.ClientSecret}, nil
			}
		}
	}

	if creds.ClientID == "" {
		id, err := promptInput("App ID: ")
		if err != nil {
			return creds, fmt.Errorf("failed to read app ID: %w", err)
		}
		creds.ClientID = id
	}

	if creds.ClientSecret == "" {
		secret, err := promptSecret("App secret: ")
		if err != nil {
			return creds, fmt.Errorf("failed to read app secret: %w", err)
		}
		creds.ClientSecret = secret
	}

	return creds, nil
}

func logoutAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(providers.EnvFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := providers.OpenStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize session storage: %w", err)
	}

	if !store.HasSession() {
		fmt.Println("Not currently logged in")
	} else {
		// Help Scout has no revocation endpoint; the token simply expires.
		if err := store.DeleteSession(); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		fmt.Println("✓ Local session deleted")
	}

	if cmd.Bool("clear-credentials") {
		if err := store.DeleteCredentials(); err != nil {
			fmt.Printf("⚠ Warning: Failed to delete credentials: %v\n", err)
		} else {
			fmt.Println("  Saved credentials deleted")
		}
	} else if store.HasCredentials() {
		fmt.Println("  💾 Credentials still saved for quick re-login")
		fmt.Println("     Use 'logout --clear-credentials' to remove them")
	}

	return nil
}

func statusAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(providers.EnvFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := providers.OpenStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize session storage: %w", err)
	}

	stored, err := store.LoadSession()
	if err != nil {
		fmt.Println("Status: Session corrupted")
		fmt.Println("\nUse 'go-helpscout-cli login --force' to create a new session")
		return nil
	}
	if stored == nil {
		fmt.Println("Status: Not logged in")
		fmt.Println("\nUse 'go-helpscout-cli login' to authenticate")
		return nil
	}

	fmt.Println("Status: Logged in")
	if stored.ClientID != "" {
		fmt.Printf("  App ID: %s\n", stored.ClientID)
	}

	switch {
	case stored.Expiry.IsZero():
		fmt.Println("  Token: Valid (no expiry reported)")
	case stored.Expired(time.Now()):
		if store.HasCredentials() || cfg.HasCredentials() {
			fmt.Println("  Token: Expired (will refresh on next request)")
		} else {
			fmt.Println("  Token: Expired (run 'go-helpscout-cli login')")
		}
	default:
		fmt.Printf("  Token: Valid until %s\n", stored.Expiry.Local().Format("Jan 2, 3:04 PM"))
	}

	fmt.Printf("  Storage: %s\n", store.GetBasePath())

	return nil
}

// promptInput prompts for user input
func promptInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptSecret reads without echo when stdin is a terminal.
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	return promptInput("")
}
