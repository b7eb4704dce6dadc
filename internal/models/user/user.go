package user

import "net/http"

// User is the authenticated caller. The concrete type carries the role, so
// role-dependent branches switch on the type instead of probing attributes.
type User interface {
	EmailAddress() string
}

// Supplier is a seller-side account.
type Supplier struct {
	Code          string
	Email         string
	Name          string
	ApplicationId string
}

func (s Supplier) EmailAddress() string { return s.Email }

// Buyer is a buyer-side account. Buyers can never respond to briefs.
type Buyer struct {
	Email string
}

func (b Buyer) EmailAddress() string { return b.Email }

// Identity headers set by the auth proxy in front of this service.
const (
	HeaderRole          = "X-User-Role"
	HeaderEmail         = "X-User-Email"
	HeaderSupplierCode  = "X-Supplier-Code"
	HeaderName          = "X-User-Name"
	HeaderApplicationId = "X-Application-Id"
)

// FromRequest reads the caller's identity from the proxy headers. The second
// return value is false for anonymous requests.
func FromRequest(r *http.Request) (User, bool) {
	email := r.Header.Get(HeaderEmail)
	switch r.Header.Get(HeaderRole) {
	case "supplier":
		return Supplier{
			Code:          r.Header.Get(HeaderSupplierCode),
			Email:         email,
			Name:          r.Header.Get(HeaderName),
			ApplicationId: r.Header.Get(HeaderApplicationId),
		}, true
	case "buyer":
		return Buyer{Email: email}, true
	}
	return nil, false
}
