package ansi

// StyleToken is an opaque handle over one or more SGR codes joined with
// semicolons. Tokens are compared by identity, never by value: the remove
// event that closes a styled span must carry the exact token instance that
// its apply event registered, even when two spans use the same codes.
type StyleToken struct {
	codes string
}

func newToken(codes string) *StyleToken {
	return &StyleToken{codes: codes}
}

// Codes returns the raw SGR code string the token carries.
func (t *StyleToken) Codes() string {
	return t.codes
}

// StyleEvent holds the tokens that start and stop at a single string index.
// Multiple tokens may start or stop at the same index; order within each
// list controls rendering precedence.
type StyleEvent struct {
	Apply  []*StyleToken
	Remove []*StyleToken
}

func (e *StyleEvent) clone() *StyleEvent {
	return &StyleEvent{
		Apply:  append([]*StyleToken(nil), e.Apply...),
		Remove: append([]*StyleToken(nil), e.Remove...),
	}
}
