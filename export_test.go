package auth

import "github.com/google/uuid"

// SetHashIDFunc swaps the id derivation used when hashid ids are enabled
func (h *RegisterUserHandler) SetHashIDFunc(fn func(string) (uuid.UUID, error)) {
	h.hashID = fn
}
