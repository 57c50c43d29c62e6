package admin

import "github.com/solarflux/fixengine/lib/fix/message"

// BuildLogout constructs an outbound Logout, optionally carrying a
// human-readable reason in Text.
func BuildLogout(text string) *message.Message {
	m := message.New(message.MsgTypeLogout)
	if text != "" {
		m.Body.Set(message.TagText, text)
	}
	return m
}

// LogoutText returns the Text field of a received Logout, if present.
func LogoutText(m *message.Message) (string, bool) {
	return m.Body.Get(message.TagText)
}
