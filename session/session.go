// Package session owns the process-wide authentication state shared by every
// request: the token pair and the last-known user summary. The state is
// persisted across restarts and is the sole source of truth for "is the user
// logged in" on cold start.
package session

// User is the summary of the authenticated account, as returned by the login
// endpoint. Role values mirror the platform's account types.
type User struct {
	ID         string `json:"id,omitempty"`
	Email      string `json:"email,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Role       string `json:"role,omitempty"`
	Phone      string `json:"phone,omitempty"`
	MerchantID string `json:"merchant_id,omitempty"`
}

// Platform account roles.
const (
	RoleAdmin        = "admin"
	RoleOperator     = "operator"
	RoleMerchant     = "merchant"
	RoleCustomsAgent = "customs_agent"
	RoleTraveler     = "client"
)

// Session is the persisted authentication state.
type Session struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// IsAuthenticated follows directly from token presence; the two are never
// allowed to disagree.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}
