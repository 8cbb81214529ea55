// model/borrow.go
package model

import "time"

type BorrowStatus string

const (
	BorrowActive   BorrowStatus = "borrowed"
	BorrowReturned BorrowStatus = "returned"
)

// BorrowRecord is one historical lending of a publication to a user.
// At most one record per publication carries status=borrowed at a time;
// it mirrors Publication.IsBorrowed and the two must never disagree.
type BorrowRecord struct {
	ID            int64        `json:"id"`
	PublicationID int64        `json:"publication_id"`
	UserID        int64        `json:"user_id"`
	BorrowTime    time.Time    `json:"borrow_time"`
	ReturnTime    *time.Time   `json:"return_time,omitempty"`
	Status        BorrowStatus `json:"status"`
}
