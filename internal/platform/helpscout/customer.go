package helpscout

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CreateCustomer creates a customer and returns its id. Help Scout reports
// the new id in the Resource-Id header, not in the body.
func (c *Client) CreateCustomer(ctx context.Context, firstName, lastName string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, customersPath, customerRequest{
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return "", err
	}

	id := resp.Header.Get(resourceIDHeader)
	if id == "" {
		return "", &ResponseShapeError{Endpoint: customersPath, Field: "resource-id header"}
	}

	return id, nil
}

// ImportCustomers creates every customer in names with at most concurrency
// requests in flight. A failed row is recorded in the result and does not
// stop the others; only context cancellation aborts the import. Created and
// Errors follow the order of names, whatever order the requests finish in.
func (c *Client) ImportCustomers(ctx context.Context, names []CustomerName, concurrency int, pr ProgressReporter) (*ImportResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	report(pr, ProgressReport{Type: ProgressCustomer, Step: StepInit, Total: len(names)})

	var (
		mu   sync.Mutex
		done int

		ids  = make([]string, len(names))
		errs = make([]error, len(names))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			id, err := c.CreateCustomer(gctx, name.FirstName, name.LastName)

			mu.Lock()
			defer mu.Unlock()

			done++
			step := StepCreated
			if err != nil {
				step = StepFailed
				errs[i] = fmt.Errorf("%s %s: %w", name.FirstName, name.LastName, err)
			} else {
				ids[i] = id
			}

			report(pr, ProgressReport{
				Type:    ProgressCustomer,
				Step:    step,
				Current: done,
				Total:   len(names),
				Message: fmt.Sprintf("%s %s", name.FirstName, name.LastName),
			})
			return nil
		})
	}

	waitErr := g.Wait()

	result := &ImportResult{Total: len(names)}
	for i, name := range names {
		switch {
		case errs[i] != nil:
			result.Errors = append(result.Errors, errs[i])
		case ids[i] != "":
			result.Created = append(result.Created, ImportedCustomer{CustomerName: name, ID: ids[i]})
		}
	}

	if waitErr != nil {
		return result, fmt.Errorf("customer import aborted: %w", waitErr)
	}

	report(pr, ProgressReport{Type: ProgressCustomer, Step: StepDone, Current: done, Total: len(names)})

	return result, nil
}
