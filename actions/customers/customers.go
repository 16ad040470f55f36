package customers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/PiotrWarzachowski/go-helpscout-cli/internal/platform/helpscout"
	"github.com/PiotrWarzachowski/go-helpscout-cli/providers"
)

// CustomersCommand groups the customer subcommands
var CustomersCommand = &cli.Command{
	Name:    "customers",
	Aliases: []string{"customer", "c"},
	Usage:   "Create Help Scout customers",
	Commands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a single customer",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "first-name",
					Aliases: []string{"f"},
					Usage:   "Customer first name",
				},
				&cli.StringFlag{
					Name:    "last-name",
					Aliases: []string{"l"},
					Usage:   "Customer last name",
				},
				&cli.BoolFlag{
					Name:    "debug",
					Aliases: []string{"d"},
					Usage:   "Enable debug output",
				},
			},
			Action: createCustomerAction,
		},
		{
			Name:      "import",
			Usage:     "Create customers from a CSV file of first,last names",
			ArgsUsage: "<file.csv>",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "concurrency",
					Aliases: []string{"c"},
					Value:   4,
					Usage:   "Number of customers created in parallel",
				},
				&cli.BoolFlag{
					Name:    "debug",
					Aliases: []string{"d"},
					Usage:   "Enable debug output",
				},
			},
			Action: importCustomersAction,
		},
	},
}

func createCustomerAction(ctx context.Context, cmd *cli.Command) error {
	provider, err := providers.NewHelpScoutProvider(ctx, cmd.Bool("debug"))
	if err != nil {
		return err
	}

	firstName := strings.TrimSpace(cmd.String("first-name"))
	lastName := strings.TrimSpace(cmd.String("last-name"))

	id, err := provider.CreateCustomer(ctx, firstName, lastName)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	fmt.Printf("✅ Created customer %s %s (id %s)\n", firstName, lastName, id)
	return nil
}

func importCustomersAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New("missing CSV file, usage: customers import <file.csv>")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	names, err := readCustomerCSV(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	provider, err := providers.NewHelpScoutProvider(ctx, cmd.Bool("debug"))
	if err != nil {
		return err
	}

	reporter := NewCLIReporter()

	result, err := provider.ImportCustomers(ctx, names, cmd.Int("concurrency"), reporter)

	reporter.Wait()

	if err != nil && result == nil {
		return err
	}

	if len(result.Errors) == 0 && err == nil {
		fmt.Printf("\n✅ Imported %d/%d customers\n", len(result.Created), result.Total)
		return nil
	}

	fmt.Printf("\n⚠️ Imported %d/%d customers\n", len(result.Created), result.Total)
	for _, e := range result.Errors {
		fmt.Printf("  - %v\n", e)
	}

	return err
}

// readCustomerCSV parses rows of first name and last name. A leading header
// row naming the columns is skipped, as are blank rows.
func readCustomerCSV(r io.Reader) ([]helpscout.CustomerName, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var names []helpscout.CustomerName
	for first := true; ; first = false {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if first && isHeader(record) {
			continue
		}

		var name helpscout.CustomerName
		if len(record) > 0 {
			name.FirstName = strings.TrimSpace(record[0])
		}
		if len(record) > 1 {
			name.LastName = strings.TrimSpace(record[1])
		}

		if name.FirstName == "" && name.LastName == "" {
			continue
		}
		if len(record) > 2 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected at most 2 columns, got %d", line, len(record))
		}

		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, errors.New("no customers found")
	}

	return names, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "firstname" || first == "first_name" || first == "first name" || first == "first"
}
