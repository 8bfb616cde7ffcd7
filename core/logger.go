package core

// Logger logs messages and reports them to the error tracker.
// args may contain errors, map[string]interface{} extras and a Principal.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Principal identifies the authenticated admin behind a request.
type Principal struct {
	ID    string
	Email string
}
