package models

// Group is a named household. Every member sees every member's
// transactions; membership is recorded on the User side (User.GroupID).
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the group name, unique across groups. Signup with an
	// unknown name creates the group implicitly.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}
