package domain

// User is the authenticated shopper of a session
type User struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Avatar     string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	JoinedDate string `json:"joined_date" yaml:"joined_date"`
}
