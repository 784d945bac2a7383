package domain

// Customer is a read model fetched from the catalog service. Customers are a
// separate bounded context; only order-placement eligibility lives here.
type Customer struct {
	InternalID  int64
	FirstName   Name
	LastName    Name
	Email       Email
	Document    Document
	IsActive    bool
	IsAnonymous bool
}

// FullName joins first and last name for display.
func (c *Customer) FullName() string {
	return c.FirstName.String() + " " + c.LastName.String()
}

// CanPlaceOrder gates order creation: the customer must be active, and
// registered customers must carry both an email and a document.
func (c *Customer) CanPlaceOrder() bool {
	if !c.IsActive {
		return false
	}
	if c.IsAnonymous {
		return true
	}
	return !c.Email.Empty() && !c.Document.Empty()
}
