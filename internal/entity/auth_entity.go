package entity

import "github.com/google/uuid"

// AuthContext identifies the caller of a gated operation. A nil UserId means anonymous.
type AuthContext struct {
	UserId *uuid.UUID
	Email  string
}

func Anonymous() AuthContext {
	return AuthContext{}
}

func (a AuthContext) IsAnonymous() bool {
	return a.UserId == nil
}
