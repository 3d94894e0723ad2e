package domain

import "time"

// Customer roles. Role decides price visibility: retail accounts browse the
// catalog without prices, professional and wholesale accounts see them.
const (
	RoleRetail       = "retail"
	RoleProfessional = "professional"
	RoleWholesale    = "wholesale"
)

// Customer is a registered account.
type Customer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PriceEntitled reports whether the customer's role grants price visibility.
func (c Customer) PriceEntitled() bool {
	return c.Role == RoleProfessional || c.Role == RoleWholesale
}
