package helpscout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestCreateCustomerReturnsResourceID(t *testing.T) {
	api := newFakeAPI(t)
	api.router.Post("/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("resource-id", "123")
		w.WriteHeader(http.StatusCreated)
	})

	id, err := api.newClient().CreateCustomer(context.Background(), "Jane", "Doe")
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if id != "123" {
		t.Fatalf("id = %q, want 123", id)
	}

	reqs := api.captured()
	var body map[string]any
	if err := json.Unmarshal(reqs[0].Body, &body); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	if body["firstName"] != "Jane" || body["lastName"] != "Doe" || len(body) != 2 {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestCreateCustomerMissingResourceID(t *testing.T) {
	api := newFakeAPI(t)
	api.router.Post("/customers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id":123}`)
	})

	_, err := api.newClient().CreateCustomer(context.Background(), "Jane", "Doe")

	var shapeErr *ResponseShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected *ResponseShapeError, got %T (%v)", err, err)
	}
	if shapeErr.Endpoint != "/customers" {
		t.Fatalf("endpoint = %q", shapeErr.Endpoint)
	}
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []ProgressReport
}

func (r *recordingReporter) Report(p ProgressReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, p)
}

func TestImportCustomersCollectsFailures(t *testing.T) {
	api := newFakeAPI(t)

	var (
		mu  sync.Mutex
		ids = map[string]string{"Ada": "1", "Grace": "2", "Linus": "3"}
	)
	// Ada finishes last and Grace after Linus
	delays := map[string]time.Duration{"Ada": 60 * time.Millisecond, "Grace": 30 * time.Millisecond}
	api.router.Post("/customers", func(w http.ResponseWriter, r *http.Request) {
		var req customerRequest
		json.NewDecoder(r.Body).Decode(&req)

		mu.Lock()
		id, ok := ids[req.FirstName]
		delay := delays[req.FirstName]
		mu.Unlock()

		time.Sleep(delay)

		if !ok {
			writeJSON(w, http.StatusBadRequest, `{"message":"validation failed"}`)
			return
		}
		w.Header().Set("resource-id", id)
		w.WriteHeader(http.StatusCreated)
	})

	names := []CustomerName{
		{FirstName: "Ada", LastName: "Lovelace"},
		{FirstName: "Grace", LastName: "Hopper"},
		{FirstName: "Nobody", LastName: "Known"},
		{FirstName: "Linus", LastName: "Torvalds"},
	}

	reporter := &recordingReporter{}
	result, err := api.newClient().ImportCustomers(context.Background(), names, 2, reporter)
	if err != nil {
		t.Fatalf("ImportCustomers: %v", err)
	}

	if result.Total != 4 || len(result.Created) != 3 || len(result.Errors) != 1 {
		t.Fatalf("unexpected result: total=%d created=%d errors=%d", result.Total, len(result.Created), len(result.Errors))
	}

	var te *TransportError
	if !errors.As(result.Errors[0], &te) || te.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected wrapped 400 *TransportError, got %v", result.Errors[0])
	}

	got := make([]string, 0, len(result.Created))
	for _, c := range result.Created {
		got = append(got, c.FirstName+"="+c.ID)
	}
	want := []string{"Ada=1", "Grace=2", "Linus=3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("created = %v, want input order %v", got, want)
	}

	reporter.mu.Lock()
	defer reporter.mu.Unlock()

	if len(reporter.reports) != 6 {
		t.Fatalf("got %d progress reports, want 6", len(reporter.reports))
	}
	if reporter.reports[0].Step != StepInit || reporter.reports[0].Total != 4 {
		t.Fatalf("first report = %+v", reporter.reports[0])
	}
	last := reporter.reports[len(reporter.reports)-1]
	if last.Step != StepDone || last.Current != 4 {
		t.Fatalf("last report = %+v", last)
	}
}

func TestImportCustomersCanceled(t *testing.T) {
	api := newFakeAPI(t)
	api.router.Post("/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("resource-id", "1")
		w.WriteHeader(http.StatusCreated)
	})

	c := api.newClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ImportCustomers(ctx, []CustomerName{{FirstName: "A"}, {FirstName: "B"}}, 1, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
