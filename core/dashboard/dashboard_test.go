package dashboard_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/class"
	"github.com/hsandamith/School-Management-System/core/dashboard"
	"github.com/hsandamith/School-Management-System/core/library"
	"github.com/hsandamith/School-Management-System/core/pupil"
	"github.com/hsandamith/School-Management-System/core/staff"
	emailsvc "github.com/hsandamith/School-Management-System/services/email"
	logsvc "github.com/hsandamith/School-Management-System/services/logger"
	"github.com/hsandamith/School-Management-System/storage/database/dbtest"
	sqlxrepos "github.com/hsandamith/School-Management-System/storage/database/sqlx"
)

func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	orig := core.NowFunc
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = orig })
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(zerolog.Nop(), conf)
	logger.Enable(false)
	db := dbtest.Open(t)
	validate := core.NewValidator(core.NewTranslator())

	svc := dashboard.NewService(conf, sqlxrepos.NewDashboardRepository(db))

	empty, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Counts{}, empty.Counts)
	assert.Empty(t, empty.RecentPupils)

	cls, err := class.NewService(db, sqlxrepos.NewClassRepository(db)).Create(ctx, class.NewClass{Name: class.YearThree, Capacity: 30})
	require.NoError(t, err)
	_, err = staff.NewService(db, sqlxrepos.NewStaffRepository(db)).CreateTeacher(ctx, staff.TeacherForm{
		ContactForm:  staff.ContactForm{FirstName: "Ruth", LastName: "Ellis", PhoneNumber: "0114 496 0300"},
		AnnualSalary: core.MoneyFromMajor(33000),
		ClassID:      cls.ID,
	})
	require.NoError(t, err)

	pupilSvc := pupil.NewService(
		conf, logger, db,
		sqlxrepos.NewPupilRepository(db), sqlxrepos.NewGuardianRepository(db),
		emailsvc.NewConsoleServiceMock(conf, logger), validate,
	)
	var ids []int64
	for day := 1; day <= 7; day++ {
		id, err := pupilSvc.Enroll(ctx, pupil.EnrollmentForm{
			FirstName:      fmt.Sprintf("Pupil%d", day),
			LastName:       "Hart",
			DateOfBirth:    core.NewDate(2016, time.May, day),
			Address:        "Sheffield",
			EnrollmentDate: core.NewDate(2024, time.September, day),
			ClassID:        cls.ID,
			Guardians:      []pupil.GuardianEntry{{FirstName: "Sue", LastName: "Hart", PhoneNumber: "0114 496 0301"}},
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	freezeTime(t, time.Date(2024, time.September, 9, 12, 0, 0, 0, time.UTC))
	librarySvc := library.NewService(conf, db, sqlxrepos.NewLibraryRepository(db), validate)
	for i, due := range []core.Date{core.NewDate(2024, time.September, 10), core.NewDate(2024, time.September, 12)} {
		b, err := librarySvc.CreateBook(ctx, library.NewBook{Title: fmt.Sprintf("Book %d", i), Author: "Anon"})
		require.NoError(t, err)
		_, err = librarySvc.CheckOut(ctx, library.NewCheckout{BookID: b.ID, PupilID: ids[i], DueDate: due})
		require.NoError(t, err)
	}
	freezeTime(t, time.Date(2024, time.September, 11, 12, 0, 0, 0, time.UTC))

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Counts{
		Teachers:         1,
		Classes:          1,
		Pupils:           7,
		Guardians:        7,
		BooksOnLoan:      2,
		OverdueCheckouts: 1,
	}, sum.Counts)

	require.Len(t, sum.RecentPupils, 5)
	assert.Equal(t, "Pupil7", sum.RecentPupils[0].FirstName)
	assert.Equal(t, "2024-09-07", sum.RecentPupils[0].EnrollmentDate.String())
	assert.Equal(t, "Year Three", sum.RecentPupils[0].ClassName)
	assert.Equal(t, "Pupil3", sum.RecentPupils[4].FirstName)
}
