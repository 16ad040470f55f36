package helpscout

type customerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CustomerName is one row of a bulk import.
type CustomerName struct {
	FirstName string
	LastName  string
}

type ImportedCustomer struct {
	CustomerName
	ID string
}

// ImportResult lists created customers and per-row errors in input order.
type ImportResult struct {
	Created []ImportedCustomer
	Errors  []error
	Total   int
}
