package helpscout

// CustomerRef identifies a customer either by id or by email, never both.
type CustomerRef struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
}

func CustomerByID(id string) CustomerRef {
	return CustomerRef{ID: id}
}

func CustomerByEmail(email string) CustomerRef {
	return CustomerRef{Email: email}
}

func (r CustomerRef) valid() bool {
	return (r.ID == "") != (r.Email == "")
}

// NewConversation is the input to CreateConversation. AssignTo is the Help
// Scout user id to assign, nil for unassigned.
type NewConversation struct {
	Subject   string
	Customer  CustomerRef
	Body      string
	MailboxID int
	AssignTo  *int
}

const (
	conversationTypeEmail    = "email"
	conversationStatusActive = "active"
	threadTypeCustomer       = "customer"
)

type conversationRequest struct {
	Subject   string               `json:"subject"`
	Customer  CustomerRef          `json:"customer"`
	MailboxID int                  `json:"mailboxId"`
	Type      string               `json:"type"`
	Status    string               `json:"status"`
	Threads   []conversationThread `json:"threads"`
	AssignTo  *int                 `json:"assignTo,omitempty"`
}

type conversationThread struct {
	Type     string      `json:"type"`
	Customer CustomerRef `json:"customer"`
	Text     string      `json:"text"`
}
