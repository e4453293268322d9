package domain

// InterestProfile is one subscribed user and their declared policy interests.
// Profiles are managed by the preferences system; this service only reads them.
type InterestProfile struct {
	UserID          string   `json:"user_id"`
	ContactRef      string   `json:"contact_ref"`
	PolicyInterests []string `json:"policy_interests"`
}
