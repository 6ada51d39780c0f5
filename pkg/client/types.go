package client

import "time"

// Conversation is a support conversation in a mailbox.
type Conversation struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	MailboxID int64     `json:"mailboxId"`
	Preview   string    `json:"preview"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"userUpdatedAt"`
}

// Thread is one entry in a conversation: a chat, a reply, or a note.
type Thread struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	State     string    `json:"state"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Customer is the person a conversation is with.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	PhotoURL  string `json:"photoUrl"`
}

// Mailbox is a shared inbox.
type Mailbox struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rating is one customer satisfaction rating from the happiness report.
type Rating struct {
	CustomerID int64  `json:"ratingCustomerId"`
	UserID     int64  `json:"ratingUserId"`
	Rating     int    `json:"rating"`
	Comments   string `json:"ratingComments"`
	CreatedAt  string `json:"ratingCreatedAt"`
}

// RatingsReport is the user ratings report payload.
type RatingsReport struct {
	Results []Rating `json:"results"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
	Count   int      `json:"count"`
}

// PatchOperation is the patch-style envelope for partial thread updates:
// one field-level operation per request.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}
