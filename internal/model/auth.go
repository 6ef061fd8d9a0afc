package model

// AuthState is the single active session of the process.
// It is always replaced as a whole.
type AuthState struct {
	IsAuthenticated bool    `json:"isAuthenticated"`
	CurrentUserID   *UserID `json:"currentUserId"`
}

// Unauthenticated returns the signed-out state
func Unauthenticated() AuthState {
	return AuthState{}
}

// AuthenticatedAs returns a signed-in state for the given user
func AuthenticatedAs(id UserID) AuthState {
	return AuthState{IsAuthenticated: true, CurrentUserID: &id}
}

// UserID returns the signed-in user id, if any
func (a AuthState) UserID() (UserID, bool) {
	if !a.IsAuthenticated || a.CurrentUserID == nil {
		return "", false
	}
	return *a.CurrentUserID, true
}
