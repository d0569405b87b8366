package domain

// ActorRole is the role of whoever performs an operation
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleStaff    ActorRole = "staff"
	RoleAdmin    ActorRole = "admin"
	RoleSystem   ActorRole = "system"
)

// Actor identifies who performs an operation
type Actor struct {
	UserID int64
	Role   ActorRole
}

// SystemActor is used by background jobs
var SystemActor = Actor{Role: RoleSystem}

// IsSystem returns true for background jobs
func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}

// IsCustomerOf returns true if the actor is the customer who owns the booking
func (a Actor) IsCustomerOf(b *Booking) bool {
	return a.Role == RoleCustomer && a.UserID == b.CustomerID
}

// UserRef returns the user id for metadata columns, nil for the system actor
func (a Actor) UserRef() *int64 {
	if a.IsSystem() || a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// ParseActorRole converts a raw role, defaulting to customer
func ParseActorRole(raw string) (ActorRole, bool) {
	switch ActorRole(raw) {
	case "", RoleCustomer:
		return RoleCustomer, true
	case RoleStaff:
		return RoleStaff, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}
