package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/class"
	"github.com/hsandamith/School-Management-System/core/dashboard"
	"github.com/hsandamith/School-Management-System/core/guardian"
	"github.com/hsandamith/School-Management-System/core/pupil"
)

func enrollmentForm(classID int64, first string) pupil.EnrollmentForm {
	return pupil.EnrollmentForm{
		FirstName:   first,
		LastName:    "Okafor",
		DateOfBirth: core.NewDate(2018, time.May, 1),
		Address:     "12 Mill Lane, Leeds",
		ClassID:     classID,
		Registration: pupil.RegistrationForm{
			Status: pupil.StatusPending,
		},
		Guardians: []pupil.GuardianEntry{{
			FirstName:        "Ngozi",
			LastName:         "Okafor",
			PhoneNumber:      "07700 900123",
			Email:            "ngozi@example.com",
			RelationshipType: "Mother",
		}},
	}
}

func Test_pupilApi_enroll(t *testing.T) {
	env := newTestEnv(t)
	freezeTime(t, time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC))

	var cls class.Class
	rec := env.do(t, http.MethodPost, "/v1/classes", class.NewClass{Name: class.Reception, Capacity: 1}, &cls)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var enr pupil.Enrollment
	rec = env.do(t, http.MethodPost, "/v1/pupils", enrollmentForm(cls.ID, "Ada"), &enr)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "Ada", enr.Pupil.FirstName)
	assert.Equal(t, "Reception", enr.Pupil.ClassName)
	assert.Equal(t, "2024-09-02", enr.Pupil.EnrollmentDate.String())
	assert.Equal(t, pupil.StatusPending, enr.Registration.Status)
	assert.Equal(t, "2024-09-02", enr.Registration.RegistrationDate.String())
	require.Len(t, enr.Guardians, 1)
	assert.Equal(t, "Mother", enr.Guardians[0].RelationshipType)
	assert.Len(t, env.mailSvc.SentMessages(), 1)

	env.run(t, []httpTest{
		{
			name: "class at capacity", method: http.MethodPost, path: "/v1/pupils", token: env.token,
			body:     marchallObj(t, enrollmentForm(cls.ID, "Bola")),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"class_id":"selected class has reached its capacity"}`),
		},
		{
			name: "unknown class", method: http.MethodPost, path: "/v1/pupils", token: env.token,
			body:     marchallObj(t, enrollmentForm(999, "Bola")),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"class_id":"selected class does not exist"}`),
		},
		{
			name: "guardian phone required", method: http.MethodPost, path: "/v1/pupils", token: env.token,
			body: marchallObj(t, func() pupil.EnrollmentForm {
				f := enrollmentForm(cls.ID, "Bola")
				f.Guardians[0].PhoneNumber = ""
				return f
			}()),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"guardians[0].phone_number":"this field is required"}`),
		},
	})

	t.Run("rejected enrollment writes nothing", func(t *testing.T) {
		var pupils []pupil.Pupil
		rec := env.do(t, http.MethodGet, "/v1/pupils", nil, &pupils)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, pupils, 1)

		var guardians []guardian.Guardian
		rec = env.do(t, http.MethodGet, "/v1/guardians", nil, &guardians)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, guardians, 1)
	})

	t.Run("editing without changing class skips the capacity check", func(t *testing.T) {
		form := enrollmentForm(cls.ID, "Adaeze")
		form.Guardians[0].ID = enr.Guardians[0].ID

		var updated pupil.Enrollment
		rec := env.do(t, http.MethodPut, "/v1/pupils/"+itoa(enr.Pupil.ID), form, &updated)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Adaeze", updated.Pupil.FirstName)
		require.Len(t, updated.Guardians, 1)
		assert.Equal(t, enr.Guardians[0].ID, updated.Guardians[0].ID)
	})

	t.Run("dashboard", func(t *testing.T) {
		var summary dashboard.Summary
		rec := env.do(t, http.MethodGet, "/v1/dashboard", nil, &summary)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 1, summary.Classes)
		assert.Equal(t, 1, summary.Pupils)
		assert.Equal(t, 1, summary.Guardians)
		require.Len(t, summary.RecentPupils, 1)
		assert.Equal(t, "Adaeze", summary.RecentPupils[0].FirstName)
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/v1/pupils/"+itoa(enr.Pupil.ID), nil, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodGet, "/v1/pupils/"+itoa(enr.Pupil.ID), nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
