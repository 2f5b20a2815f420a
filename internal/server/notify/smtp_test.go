package notify

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSendMail(t *testing.T, fn func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error) {
	t.Helper()
	orig := sendMail
	sendMail = fn
	t.Cleanup(func() { sendMail = orig })
}

func TestSMTPSender_Send(t *testing.T) {
	var (
		gotAddr string
		gotAuth smtp.Auth
		gotFrom string
		gotTo   []string
		gotBody string
	)
	stubSendMail(t, func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotBody = addr, a, from, to, string(msg)
		return nil
	})

	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", From: "team@landchain.io"})
	require.NoError(t, s.Send(context.Background(), WelcomeMessage("Alice", "a@x.io", "AB12CD34")))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "team@landchain.io", gotFrom)
	assert.Equal(t, []string{"a@x.io"}, gotTo)
	assert.Contains(t, gotBody, "Subject: Welcome to LandChain\r\n")
	assert.Contains(t, gotBody, "multipart/alternative")
	assert.Contains(t, gotBody, "Your Unique ID: AB12CD34")
	assert.Contains(t, gotBody, "<strong>AB12CD34</strong>")
}

func TestSMTPSender_NoAuthTextOnly(t *testing.T) {
	var gotAuth smtp.Auth
	var gotBody string
	stubSendMail(t, func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAuth, gotBody = a, string(msg)
		return nil
	})

	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25, From: "x@y.io"})
	require.NoError(t, s.Send(context.Background(), Message{To: "a@x.io", Subject: "hi", Text: "plain"}))

	assert.Nil(t, gotAuth)
	assert.Contains(t, gotBody, "Content-Type: text/plain; charset=UTF-8\r\n\r\nplain")
}

func TestSMTPSender_Errors(t *testing.T) {
	stubSendMail(t, func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	})
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25})

	err := s.Send(context.Background(), Message{To: "a@x.io"})
	require.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Send(ctx, Message{To: "a@x.io"}), context.Canceled)
}

// silentListener accepts connections and never writes the SMTP greeting.
func silentListener(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var conns []net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			conns = append(conns, c)
		}
	}()
	t.Cleanup(func() {
		_ = l.Close()
		<-done
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return l.Addr().String()
}

func smtpConfigFor(t *testing.T, addr string) SMTPConfig {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	p, err := net.LookupPort("tcp", port)
	require.NoError(t, err)
	return SMTPConfig{Host: host, Port: p, From: "x@y.io"}
}

func TestSMTPSender_StalledServerHonoursDeadline(t *testing.T) {
	s := NewSMTPSender(smtpConfigFor(t, silentListener(t)))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := s.Send(ctx, Message{To: "a@x.io", Text: "hi"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestSMTPSender_StalledServerHonoursCancel(t *testing.T) {
	s := NewSMTPSender(smtpConfigFor(t, silentListener(t)))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	start := time.Now()
	err := s.Send(ctx, Message{To: "a@x.io", Text: "hi"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 3*time.Second)
}

// fakeSMTP speaks just enough SMTP for one plain-text delivery and
// returns the DATA payload on the channel.
func fakeSMTP(t *testing.T) (string, <-chan string) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	got := make(chan string, 1)
	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		r := bufio.NewReader(c)
		write := func(s string) { _, _ = c.Write([]byte(s + "\r\n")) }

		write("220 fake ESMTP")
		var data strings.Builder
		inData := false
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if inData {
				if line == ".\r\n" {
					inData = false
					got <- data.String()
					write("250 queued")
					continue
				}
				data.WriteString(line)
				continue
			}
			switch cmd := strings.ToUpper(strings.TrimSpace(line)); {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				write("250 fake")
			case strings.HasPrefix(cmd, "DATA"):
				inData = true
				write("354 go ahead")
			case strings.HasPrefix(cmd, "QUIT"):
				write("221 bye")
				return
			default:
				write("250 OK")
			}
		}
	}()
	return l.Addr().String(), got
}

func TestSMTPSender_DeliversOverWire(t *testing.T) {
	addr, got := fakeSMTP(t)
	s := NewSMTPSender(smtpConfigFor(t, addr))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Send(ctx, Message{To: "a@x.io", Subject: "hi", Text: "plain body"}))

	select {
	case body := <-got:
		assert.Contains(t, body, "Subject: hi")
		assert.Contains(t, body, "plain body")
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}
