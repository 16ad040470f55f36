package helpscout

import "time"

type Mailbox struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Page is the HAL paging block Help Scout attaches to collection responses.
type Page struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type mailboxesResponse struct {
	Embedded *struct {
		Mailboxes *[]Mailbox `json:"mailboxes"`
	} `json:"_embedded"`
	Page *Page `json:"page,omitempty"`
}
