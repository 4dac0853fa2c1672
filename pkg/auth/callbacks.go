package auth

// OnTokenIssue runs when a session token is issued or refreshed.
// user is non-nil only right after a sign-in, in which case its authorization is copied
// onto the token. A user without authorization leaves the token's value as it was, and on
// refresh the token is returned unchanged.
func OnTokenIssue(token Token, user *User) Token {
	if user != nil && user.Authorization != nil {
		authorization := *user.Authorization
		token.Authorization = &authorization
	}
	return token
}

// OnSessionBuild copies the token's authorization onto the session, replacing whatever
// the session held before.
func OnSessionBuild(session Session, token Token) Session {
	if token.Authorization == nil {
		session.Authorization = nil
		return session
	}
	authorization := *token.Authorization
	session.Authorization = &authorization
	return session
}
