package teacher

// Teacher is a stored teacher profile. Read-only from this system's
// perspective; records are seeded out-of-band.
type Teacher struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Class   string `json:"class"`
}
