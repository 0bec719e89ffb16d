package constants

const (
	// ContextKeyUserID is the gin context and session key holding the authenticated user ID
	ContextKeyUserID = "user_id"
	// ContextKeyUser holds the authenticated *models.User once loaded
	ContextKeyUser = "current_user"
	// SessionKeyToken stores the bearer token for cookie-based clients
	SessionKeyToken = "token"
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "okr_session"
)

const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 50

	// GeneratedPasswordBytes is the entropy of initial passwords handed out to admin-created users
	GeneratedPasswordBytes = 9
)

// Pagination defaults mirror the content API the dashboard was written against
const (
	MinPageSize     = 1
	DefaultPageSize = 25
	MaxPageSize     = 100
)

const (
	MinProgress = 0
	MaxProgress = 100
)

// MaxSuggestedTasks bounds how many drafts the AI suggestion endpoint may return
const MaxSuggestedTasks = 20

// DateLayout is the calendar-day format used by the day filters
const DateLayout = "2006-01-02"

// TokenIssuer is written into every JWT the server signs
const TokenIssuer = "okr-dashboard"
