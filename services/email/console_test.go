package emailsvc

import (
	"bytes"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsandamith/School-Management-System/core"
	logsvc "github.com/hsandamith/School-Management-System/services/logger"
)

func TestConsoleService(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(zerolog.Nop(), conf)
	logger.Enable(false)

	orig := core.NowFunc
	core.NowFunc = func() time.Time { return time.Date(2024, time.September, 2, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { core.NowFunc = orig })

	svc := NewConsoleServiceMock(conf, logger)
	out := new(bytes.Buffer)
	svc.out = out

	to := mail.Address{Name: "Ngozi Okafor", Address: "ngozi@example.com"}
	reminder := &core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      "Overdue library books for Ada Okafor",
		TemplateName: "overdue_reminder",
		TemplateData: map[string]interface{}{
			"GuardianName": "Ngozi Okafor",
			"PupilName":    "Ada Okafor",
			"Books": []map[string]string{
				{"Title": "Zog", "DueDate": "2024-08-30", "Fine": "£1.50"},
			},
		},
	}
	plain := &core.EmailMessage{To: []mail.Address{to}, Subject: "Hello", BodyStr: "plain body"}
	noRecipient := &core.EmailMessage{Subject: "Nobody", BodyStr: "dropped"}

	require.NoError(t, plain.Attach(strings.NewReader("name,fine\nAda,1.50\n"), "fines.csv", "text/csv"))

	svc.SendMessages(reminder, plain, noRecipient)
	svc.Wait()

	sent := svc.SentMessages()
	require.Len(t, sent, 2)

	printed := out.String()
	assert.Contains(t, printed, "Subject: [School Management System] Overdue library books for Ada Okafor")
	assert.Contains(t, printed, `To: "Ngozi Okafor" <ngozi@example.com>`)
	assert.Contains(t, printed, "Zog (due 2024-08-30, fine so far £1.50)")
	assert.Contains(t, printed, "Content-Type: text/html; charset=utf-8")
	assert.Contains(t, printed, "multipart/mixed")
	assert.Contains(t, printed, "filename=fines.csv")
	assert.Contains(t, printed, "Date: Mon, 02 Sep 2024 09:00:00 +0000")
	assert.NotContains(t, printed, "Nobody")
}
