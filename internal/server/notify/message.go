// Package notify delivers out-of-band messages such as the welcome email
// that carries a new account's unique ID. Delivery is best effort: callers
// enqueue and move on.
package notify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// Message is one email. It is also the JSON payload relayed over AMQP.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

const WelcomeSubject = "Welcome to LandChain"

const welcomeMarkdown = `Hello %s,

Your registration was successful!

Your Unique ID: **%s**

Use this ID to log in.

The LandChain Team
`

const welcomeText = "Hello %s,\n\nYour registration was successful!\nYour Unique ID: %s\nUse this ID to log in.\n\nThe LandChain Team\n"

var markdown = goldmark.New()

// WelcomeMessage builds the registration email for a new account. If the
// Markdown body cannot be rendered the message goes out as text only.
func WelcomeMessage(username, email, uniqueID string) Message {
	msg := Message{
		To:      email,
		Subject: WelcomeSubject,
		Text:    fmt.Sprintf(welcomeText, username, uniqueID),
	}

	var html bytes.Buffer
	body := fmt.Sprintf(welcomeMarkdown, escapeMarkdown(username), escapeMarkdown(uniqueID))
	if err := markdown.Convert([]byte(body), &html); err == nil {
		msg.HTML = html.String()
	}
	return msg
}

// escapeMarkdown backslash-escapes every ASCII punctuation character and
// flattens line breaks, so user text renders as literal inline text.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
