package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/guardian"
	"github.com/hsandamith/School-Management-System/core/library"
)

type (
	overdueBook struct {
		Title   string
		DueDate string
		Fine    string
	}

	reminderData struct {
		GuardianName string
		PupilName    string
		Books        []overdueBook
	}
)

const overdueAttachmentName = "overdue-books.csv"

func overdueCSV(books []overdueBook) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"title", "due_date", "fine"})
	for _, b := range books {
		_ = w.Write([]string{b.Title, b.DueDate, b.Fine})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// remindOverdue builds one reminder per guardian of every pupil holding overdue books
// and returns the messages it sent (or would send, when dryRun is set).
func (cli *commandLine) remindOverdue(ctx context.Context, dryRun bool) ([]*core.EmailMessage, error) {
	checkouts, err := cli.librarySvc.Overdue(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing overdue checkouts")
	}

	loc := cli.conf.Location()
	now := core.NowFunc()
	currency := cli.conf.Library.Currency

	// group by pupil, keeping the order in which pupils first appear
	var pupilIDs []int64
	byPupil := make(map[int64][]library.Checkout)
	for _, c := range checkouts {
		if _, ok := byPupil[c.PupilID]; !ok {
			pupilIDs = append(pupilIDs, c.PupilID)
		}
		byPupil[c.PupilID] = append(byPupil[c.PupilID], c)
	}

	var messages []*core.EmailMessage
	for _, pupilID := range pupilIDs {
		pupilCheckouts := byPupil[pupilID]
		books := make([]overdueBook, 0, len(pupilCheckouts))
		for _, c := range pupilCheckouts {
			fine := library.CalculateFine(c.DueDate.In(loc), now, cli.conf.Library.FineRatePerDay)
			books = append(books, overdueBook{
				Title:   c.BookTitle,
				DueDate: c.DueDate.String(),
				Fine:    fine.Format(currency),
			})
		}

		attachment, err := overdueCSV(books)
		if err != nil {
			return nil, errors.Wrap(err, "writing overdue list")
		}

		guardians, err := cli.guardianSvc.Query(ctx, &guardian.QueryFilter{PupilID: pupilID}, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "listing guardians of pupil %d", pupilID)
		}

		pupilName := pupilCheckouts[0].PupilName
		sent := 0
		for _, g := range guardians {
			addr, ok := g.MailAddress()
			if !ok {
				continue
			}
			msg := &core.EmailMessage{
				To:           []mail.Address{addr},
				Subject:      "Overdue library books for " + pupilName,
				TemplateName: "overdue_reminder",
				TemplateData: reminderData{
					GuardianName: g.FullName(),
					PupilName:    pupilName,
					Books:        books,
				},
			}
			if err := msg.Attach(bytes.NewReader(attachment), overdueAttachmentName, "text/csv"); err != nil {
				return nil, errors.Wrap(err, "attaching overdue list")
			}
			messages = append(messages, msg)
			sent++
		}
		if sent == 0 {
			cli.logger.Warn(fmt.Sprintf("pupil %d has overdue books but no guardian email", pupilID))
		}
	}

	if dryRun {
		for _, m := range messages {
			data := m.TemplateData.(reminderData)
			_, _ = fmt.Fprintf(cli.out, "%s: %s (%d overdue)\n", m.To[0].String(), data.PupilName, len(data.Books))
		}
		_, _ = fmt.Fprintf(cli.out, "%d reminder(s) would be sent\n", len(messages))
		return messages, nil
	}

	if len(messages) > 0 {
		cli.mailSvc.SendMessages(messages...)
		if w, ok := cli.mailSvc.(interface{ Wait() }); ok {
			w.Wait()
		}
	}
	_, _ = fmt.Fprintf(cli.out, "%d reminder(s) sent\n", len(messages))
	return messages, nil
}
