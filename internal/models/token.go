package models

// role granted in token
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// TokenPayload is verified content of auth token
type TokenPayload struct {
	UserID uint64
	Role   string
}
