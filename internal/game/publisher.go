package game

// Publisher delivers encoded server messages to a subject. Each session
// listens on its own subject, so one subscriber writes to each connection
// and messages for a session arrive in publish order.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SessionSubject is the subject a session's connection subscribes to.
func SessionSubject(sessionId string) string {
	return "session." + sessionId
}
