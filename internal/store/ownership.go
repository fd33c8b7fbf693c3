package store

// IsOwner reports whether userID created movie m. IDs are compared in their
// canonical string form; a movie without an owner is owned by nobody.
func IsOwner(m *Movie, userID string) bool {
	return m.CreatedBy != "" && userID != "" && m.CreatedBy == userID
}
