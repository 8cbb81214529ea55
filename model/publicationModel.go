// model/publication.go
package model

import "time"

type PublicationType string

const (
	TypeBook     PublicationType = "book"
	TypeMagazine PublicationType = "magazine"
)

// Publication is a catalog item available for lending: a book or a
// magazine. The borrowing fields move together: BorrowerID and DueDate
// are set exactly when IsBorrowed is true.
type Publication struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Type  PublicationType `json:"type"`

	// Book fields
	Author   string `json:"author,omitempty"`
	ISBN     string `json:"isbn,omitempty"`
	Category string `json:"category,omitempty"`

	// Magazine fields
	Issue     string `json:"issue,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	IsLatest  bool   `json:"is_latest,omitempty"`

	IsBorrowed bool       `json:"is_borrowed"`
	BorrowerID *int64     `json:"borrower_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overdue reports whether the publication is held past its due date at
// the given instant. Advisory only: nothing transitions on overdue.
func (p *Publication) Overdue(now time.Time) bool {
	return p.IsBorrowed && p.DueDate != nil && now.After(*p.DueDate)
}
