package order

// Address holds the billing or shipping contact fields of an order.
// All fields are optional strings; an address with an empty Address1 is
// considered empty, mirroring how the merge workflow decides whether an
// accumulated address has been filled yet.
//
// Address is a plain record rather than a guarded value object: there are no
// invariants between its fields, and merges copy all eleven fields atomically.
type Address struct {
	FirstName string
	LastName  string
	Company   string
	Email     string
	Phone     string
	Address1  string
	Address2  string
	City      string
	State     string
	Postcode  string
	Country   string
}

// IsEmpty reports whether the address has been filled.
// Only Address1 is consulted; an address without a first street line is
// treated as absent regardless of the other fields.
func (a Address) IsEmpty() bool {
	return a.Address1 == ""
}
