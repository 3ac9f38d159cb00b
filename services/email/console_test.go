package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeboard/gradeboard/core"
)

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := &core.Config{
		AppName:          "Gradeboard",
		DefaultFromEmail: mail.Address{Name: "Gradeboard", Address: "noreply@gradeboard.test"},
	}
	svc := NewConsoleServiceMock(conf)

	sentBefore := len(SentMessages)

	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: "Priya Verma", Address: "priya@school.test"}},
		Cc:      []mail.Address{{Address: "office@school.test"}},
		Bcc:     []mail.Address{{Address: "audit@school.test"}},
		Subject: "Marks updated",
		BodyStr: "Marks for STU001 were updated.",
	}
	svc.SendMessages(msg)

	require.Len(t, SentMessages, sentBefore+1)
	sent := SentMessages[len(SentMessages)-1]
	assert.Equal(t, msg.To, sent.To)
	assert.Equal(t, msg.Cc, sent.Cc)
	assert.Equal(t, msg.Bcc, sent.Bcc)
	assert.Equal(t, "Marks for STU001 were updated.", sent.TextContent)
}

func TestConsoleServiceMock_skipsEmptyMessages(t *testing.T) {
	conf := &core.Config{AppName: "Gradeboard"}
	svc := NewConsoleServiceMock(conf)

	sentBefore := len(SentMessages)

	// no recipients, then no content: neither may be recorded as sent
	svc.SendMessages(&core.EmailMessage{Subject: "orphan", BodyStr: "body"})
	svc.SendMessages(&core.EmailMessage{To: []mail.Address{{Address: "priya@school.test"}}})

	assert.Len(t, SentMessages, sentBefore)
}
