package domain

// SessionState is the authentication state machine's current node.
type SessionState string

const (
	StateUnknown        SessionState = "unknown"
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
)

// validTransitions defines the allowed state machine transitions. Every
// state may fall back to Anonymous (logout, 401, failed auth). Overlapping
// auth calls keep the machine in Authenticating; the last to resolve wins.
var validTransitions = map[SessionState][]SessionState{
	StateUnknown:        {StateAnonymous, StateAuthenticated},
	StateAnonymous:      {StateAuthenticating, StateAnonymous},
	StateAuthenticating: {StateAuthenticating, StateAuthenticated, StateAnonymous},
	StateAuthenticated:  {StateAuthenticating, StateAuthenticated, StateAnonymous},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Session is the derived view of who is logged in.
type Session struct {
	State           SessionState `json:"state"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsAdmin         bool         `json:"isAdmin"`
	IsLoading       bool         `json:"isLoading"`
	SubjectID       string       `json:"subjectId,omitempty"`
	DisplayName     string       `json:"displayName,omitempty"`
	Email           string       `json:"email,omitempty"`
	Role            Role         `json:"role,omitempty"`
}
