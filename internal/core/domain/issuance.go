package domain

// Issuance records a quantity of an item handed out to a recipient.
// ItemID is not enforced against the item collection; deleting an item
// leaves its issuances in place.
type Issuance struct {
	ID             string `json:"id"`
	ItemID         string `json:"item_id"`
	IssuedTo       string `json:"issued_to"`
	IssuedAt       Date   `json:"issued_at"`
	QuantityIssued int    `json:"quantity_issued"`
	ReturnQuantity int    `json:"return_quantity"`
	ReturnDate     *Date  `json:"return_date,omitempty"`
}

// Outstanding is the net quantity still out for this record, never negative.
func (i Issuance) Outstanding() int {
	if n := i.QuantityIssued - i.ReturnQuantity; n > 0 {
		return n
	}
	return 0
}
