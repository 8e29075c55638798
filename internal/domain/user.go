package domain

import (
	"fmt"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// User is the authenticated account as reported by /user-info/.
// IsAdmin is the server-issued role flag; it is the only source of admin rights.
type User struct {
	ID        int                 `json:"id"`
	Username  string              `json:"username"`
	Email     openapi_types.Email `json:"email"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	IsAdmin   bool                `json:"is_admin"`
	HasDriver bool                `json:"has_driver"`
}

// Validate checks the fields every stored or fetched user must carry.
func (u User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrMalformedResponse)
	}
	if u.Username == "" {
		return fmt.Errorf("%w: username is required", ErrMalformedResponse)
	}
	return nil
}

// TokenPair is the result of a successful login or registration.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration carries account, personal and carrier-enrollment fields.
// The server creates the carrier/driver relationship from LicenseNumber,
// CarrierName and CarrierAddress.
type Registration struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	LicenseNumber  string `json:"license_number"`
	CarrierName    string `json:"carrier_name"`
	CarrierAddress string `json:"carrier_address"`
}
