package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	"kidcare/internal/domain/schedule"
	"kidcare/internal/domain/status"
	repo "kidcare/internal/repository"
	"kidcare/internal/usecase"
)

type appointmentFixture struct {
	appointments *AppointmentRepoMock
	children     *ChildRepoMock
	vaccines     *VaccineRepoMock
	audit        *AuditRepoMock
	publisher    *PublisherMock
	recorder     *RecorderMock
	uc           *usecase.AppointmentUsecase
}

// 今日は2024-05-12（日曜）
func newAppointmentFixture() *appointmentFixture {
	f := &appointmentFixture{
		appointments: new(AppointmentRepoMock),
		children:     new(ChildRepoMock),
		vaccines:     new(VaccineRepoMock),
		audit:        new(AuditRepoMock),
		publisher:    new(PublisherMock),
		recorder:     new(RecorderMock),
	}
	clk := clock.NewFixed(fixedNow)
	tx := newTx(&TxReposMock{appointments: f.appointments, audit: f.audit})
	sched := usecase.NewScheduleUsecase(schedule.DefaultRules(), time.UTC, clk)
	f.uc = usecase.NewAppointmentUsecase(
		tx, f.appointments, f.children, f.vaccines, sched,
		model.NewAppointmentStatusEngine(false), f.publisher, f.recorder, nil, clk,
	)
	return f
}

var toddler = model.Child{
	ID:        childUUID,
	UserID:    "u1",
	Name:      "Omar",
	BirthDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
}

var rotavirus = model.Vaccine{ID: vaccineUUID, Name: "Rotavirus", MinAgeMonths: 2, MaxAgeMonths: 6}

func validAppointmentInput() usecase.CreateAppointmentInput {
	return usecase.CreateAppointmentInput{
		ChildID:         childUUID,
		VaccineID:       vaccineUUID,
		VaccinationDate: "2024-05-13",
		PhoneNumber:     "+201012345678",
		Governorate:     "Giza",
		City:            "Dokki",
		Street:          "Tahrir",
		BuildingNumber:  "12",
	}
}

// =====================
// Create
// =====================

func TestAppointmentUsecase_Create_ReportsEveryField(t *testing.T) {
	f := newAppointmentFixture()

	_, err := f.uc.Create(context.Background(), "u1", usecase.CreateAppointmentInput{})

	he := requireHTTPError(t, err, http.StatusBadRequest)
	for _, key := range []string{"childId", "vaccineId", "vaccinationDate", "phoneNumber", "governorate", "city", "street"} {
		assert.Contains(t, he.Fields, key)
	}
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAppointmentUsecase_Create_DateRules(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{"past", "2024-05-01", "date is in the past"},
		{"friday", "2024-05-17", "date falls on a rest day"},
		{"saturday", "2024-05-18", "date falls on a rest day"},
		{"malformed", "13/05/2024", "date must be YYYY-MM-DD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture()
			f.children.On("FindByID", mock.Anything, childUUID).Return(toddler, nil)
			f.vaccines.On("FindByID", mock.Anything, vaccineUUID).Return(rotavirus, nil)

			in := validAppointmentInput()
			in.VaccinationDate = tt.date
			_, err := f.uc.Create(context.Background(), "u1", in)

			he := requireHTTPError(t, err, http.StatusBadRequest)
			assert.Equal(t, map[string]string{"vaccinationDate": tt.want}, he.Fields)
		})
	}
}

func TestAppointmentUsecase_Create_OthersChildNotFound(t *testing.T) {
	f := newAppointmentFixture()
	other := toddler
	other.UserID = "u2"
	f.children.On("FindByID", mock.Anything, childUUID).Return(other, nil)
	f.vaccines.On("FindByID", mock.Anything, vaccineUUID).Return(model.Vaccine{}, repo.ErrNotFound)

	_, err := f.uc.Create(context.Background(), "u1", validAppointmentInput())

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "child not found", he.Fields["childId"])
	assert.Equal(t, "vaccine not found", he.Fields["vaccineId"])
}

// uuidでないIDも他の項目と一緒にまとめて返す
func TestAppointmentUsecase_Create_MalformedIDs(t *testing.T) {
	f := newAppointmentFixture()

	in := validAppointmentInput()
	in.ChildID = "c-1"
	in.VaccineID = "not-a-uuid"
	in.VaccinationDate = "2024-05-17"
	in.City = ""
	_, err := f.uc.Create(context.Background(), "u1", in)

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, map[string]string{
		"childId":         "child not found",
		"vaccineId":       "vaccine not found",
		"vaccinationDate": "date falls on a rest day",
		"city":            "city is required",
	}, he.Fields)
	f.children.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.vaccines.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAppointmentUsecase_MalformedIDIsNotFound(t *testing.T) {
	f := newAppointmentFixture()

	err := f.uc.Cancel(context.Background(), "u1", "a-1")
	requireHTTPError(t, err, http.StatusNotFound)

	staff := status.Actor{ID: "admin-1", Role: string(model.RoleAdmin)}
	_, err = f.uc.UpdateStatus(context.Background(), staff, "a-1", usecase.AppointmentStatusInput{Status: "Approved"})
	requireHTTPError(t, err, http.StatusNotFound)

	f.appointments.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

func TestAppointmentUsecase_Create_TodayIsSelectable(t *testing.T) {
	f := newAppointmentFixture()
	f.children.On("FindByID", mock.Anything, childUUID).Return(toddler, nil)
	f.vaccines.On("FindByID", mock.Anything, vaccineUUID).Return(rotavirus, nil)
	f.appointments.On("Create", mock.Anything, mock.Anything).Return(nil)

	in := validAppointmentInput()
	in.VaccinationDate = "2024-05-12"
	out, err := f.uc.Create(context.Background(), "u1", in)

	require.NoError(t, err)
	assert.Equal(t, "2024-05-12", out.VaccinationDate.String())
}

func TestAppointmentUsecase_Create_Success(t *testing.T) {
	f := newAppointmentFixture()
	f.children.On("FindByID", mock.Anything, childUUID).Return(toddler, nil)
	f.vaccines.On("FindByID", mock.Anything, vaccineUUID).Return(rotavirus, nil)
	f.appointments.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Appointment) bool {
		return a.UserID == "u1" && a.Status == model.AppointmentStatusPending && a.Contact.City == "Dokki"
	})).Return(nil)

	out, err := f.uc.Create(context.Background(), "u1", validAppointmentInput())

	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Pending", out.Status)
	assert.Equal(t, "2024-05-13", out.VaccinationDate.String())
	assert.Equal(t, "+201012345678", out.Contact.Phone)
	require.NotNil(t, out.AgeEligible)
	// 生後4か月。接種範囲(2〜6か月)に入る
	assert.True(t, *out.AgeEligible)
	f.appointments.AssertExpectations(t)
}

// =====================
// Cancel
// =====================

func TestAppointmentUsecase_Cancel(t *testing.T) {
	tests := []struct {
		name   string
		owner  string
		status model.AppointmentStatus
		want   int
	}{
		{"pending", "u1", model.AppointmentStatusPending, 0},
		{"approved", "u1", model.AppointmentStatusApproved, http.StatusConflict},
		{"rejected", "u1", model.AppointmentStatusRejected, http.StatusConflict},
		{"others", "u2", model.AppointmentStatusPending, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture()
			f.appointments.On("FindByIDForUpdate", mock.Anything, appointmentUUID).
				Return(model.Appointment{ID: appointmentUUID, UserID: tt.owner, Status: tt.status}, nil)
			f.appointments.On("SoftDelete", mock.Anything, appointmentUUID).Return(nil)

			err := f.uc.Cancel(context.Background(), "u1", appointmentUUID)

			if tt.want == 0 {
				require.NoError(t, err)
				f.appointments.AssertCalled(t, "SoftDelete", mock.Anything, appointmentUUID)
				return
			}
			requireHTTPError(t, err, tt.want)
			f.appointments.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
		})
	}
}

// =====================
// スタッフの操作
// =====================

func TestAppointmentUsecase_UpdateStatus_ProviderApproves(t *testing.T) {
	f := newAppointmentFixture()
	provider := status.Actor{ID: "prov-1", Role: string(model.RoleProvider)}
	f.appointments.On("FindByIDForUpdate", mock.Anything, appointmentUUID).
		Return(model.Appointment{ID: appointmentUUID, UserID: "u1", Status: model.AppointmentStatusPending, VaccinationDate: time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)}, nil)
	f.appointments.On("UpdateStatus", mock.Anything, appointmentUUID, model.AppointmentStatusApproved).Return(nil)
	f.audit.On("Create", mock.Anything, auditWith(model.AuditActionUpdateAppointmentStatus, appointmentUUID)).Return(nil)
	f.recorder.On("StatusChanged", "appointment", "Approved").Return()
	f.publisher.On("PublishStatusChanged", mock.Anything, mock.MatchedBy(func(ev model.StatusChangedEvent) bool {
		return ev.Kind == model.EventKindAppointment && ev.To == "Approved" && ev.ActorID == "prov-1"
	})).Return(nil)

	out, err := f.uc.UpdateStatus(context.Background(), provider, appointmentUUID, usecase.AppointmentStatusInput{Status: "Approved"})

	require.NoError(t, err)
	assert.Equal(t, "Approved", out.Status)
	assert.Equal(t, fixedNow, out.UpdatedAt)
	f.audit.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestAppointmentUsecase_UpdateStatus_ParentMayNot(t *testing.T) {
	f := newAppointmentFixture()
	parent := status.Actor{ID: "u1", Role: string(model.RoleUser)}
	f.appointments.On("FindByIDForUpdate", mock.Anything, appointmentUUID).
		Return(model.Appointment{ID: appointmentUUID, UserID: "u1", Status: model.AppointmentStatusPending}, nil)

	_, err := f.uc.UpdateStatus(context.Background(), parent, appointmentUUID, usecase.AppointmentStatusInput{Status: "Approved"})

	requireHTTPError(t, err, http.StatusBadRequest)
	f.appointments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAppointmentUsecase_AdminList_FilterAndSearch(t *testing.T) {
	f := newAppointmentFixture()
	list := []model.Appointment{
		{ID: appointmentUUID, Status: model.AppointmentStatusPending, Contact: model.AddressSnapshot{City: "Dokki"}},
		{ID: "a-2", Status: model.AppointmentStatusPending, Contact: model.AddressSnapshot{City: "Maadi"}},
	}
	f.appointments.On("List", mock.Anything, repo.AppointmentListFilter{Status: "Pending"}).Return(list, nil)

	out, err := f.uc.AdminList(context.Background(), usecase.AdminAppointmentListInput{
		ListInput: usecase.ListInput{Q: "maadi"},
		Status:    "Pending",
	})

	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "a-2", out.Data[0].ID)
	assert.Equal(t, 1, out.TotalEntries)
}
