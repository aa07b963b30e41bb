package store

import "github.com/google/uuid"

// NewID returns a time-ordered identifier. Ids minted by this process sort
// in creation order, which breaks ties between records sharing a timestamp.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
