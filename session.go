package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestIdentity is the verified subject of the current request. It is built
// by the gate from validated claims and lives only for the request lifetime.
type RequestIdentity struct {
	SubjectID string    `json:"subject_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubjectUUID parses the subject as a UUID
func (r RequestIdentity) SubjectUUID() (uuid.UUID, error) {
	return uuid.Parse(r.SubjectID)
}

func (r RequestIdentity) String() string {
	return fmt.Sprintf(
		"sub=%s iat=%s exp=%s",
		r.SubjectID,
		r.IssuedAt.Format(time.RFC1123),
		r.ExpiresAt.Format(time.RFC1123),
	)
}

// IdentityFromClaims creates a RequestIdentity from verified claims
func IdentityFromClaims(claims AuthClaims) (*RequestIdentity, error) {
	if claims == nil || claims.UserID() == "" {
		return nil, ErrUnableToParseData
	}

	return &RequestIdentity{
		SubjectID: claims.UserID(),
		IssuedAt:  claims.IssuedAt(),
		ExpiresAt: claims.Expires(),
	}, nil
}
