package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
	"github.com/m04kA/HMS-AppointmentService/pkg/ptr"
)

type fakeRepo struct {
	appointments map[string]*domain.Appointment
	updateErr    error
	cancelled    []string
	statusLog    []domain.AppointmentStatus
}

func newFakeRepo(appts ...*domain.Appointment) *fakeRepo {
	m := map[string]*domain.Appointment{}
	for _, a := range appts {
		m[a.ID] = a
	}
	return &fakeRepo{appointments: m}
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeRepo) ListWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range f.appointments {
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.LiveOnly && !a.IsLive() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	f.statusLog = append(f.statusLog, status)
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, id string, reason *string, cancelledBy string) error {
	a, ok := f.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = domain.StatusCancelled
	a.CancellationReason = reason
	a.CancelledBy = &cancelledBy
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeRegistry struct {
	hospitals map[string]*registryservice.Hospital
	patients  map[string]*registryservice.Patient
}

func (f *fakeRegistry) GetHospital(_ context.Context, id string) (*registryservice.Hospital, error) {
	h, ok := f.hospitals[id]
	if !ok {
		return nil, registryservice.ErrHospitalNotFound
	}
	return h, nil
}

func (f *fakeRegistry) GetPatient(_ context.Context, id string) (*registryservice.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, registryservice.ErrPatientNotFound
	}
	return p, nil
}

type fakeNotify struct {
	cancellations []*notifyservice.AppointmentNotice
	err           error
}

func (f *fakeNotify) SendCancellation(_ context.Context, n *notifyservice.AppointmentNotice) error {
	f.cancellations = append(f.cancellations, n)
	return f.err
}

type fakeBooking struct {
	lastReq *book_appointment.Request
	resp    *book_appointment.Response
	err     error
}

func (f *fakeBooking) Execute(_ context.Context, req *book_appointment.Request) (*book_appointment.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testNow() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func upcomingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:                "appt-1",
		HospitalID:        "hosp-1",
		DoctorID:          "doc-1",
		PatientID:         "pat-1",
		AppointmentNumber: "APT202609070001",
		AppointmentDate:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime:         time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC),
		EndTime:           time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC),
		Type:              domain.TypeConsultation,
		Status:            domain.StatusConfirmed,
		BookedBy:          ptr.Ptr("user-1"),
	}
}

func defaultRegistry() *fakeRegistry {
	return &fakeRegistry{
		hospitals: map[string]*registryservice.Hospital{
			"hosp-1": {ID: "hosp-1", Timezone: "America/New_York", IsActive: true},
		},
		patients: map[string]*registryservice.Patient{
			"pat-1": {ID: "pat-1", UserID: "user-1", HospitalID: "hosp-1", ContactEmail: "p@example.com"},
		},
	}
}

func newTestService(repo *fakeRepo, notify *fakeNotify, booking *fakeBooking) *Service {
	return NewService(repo, defaultRegistry(), notify, booking, &fixedTime{now: testNow()}, nopLogger{})
}

func TestService_GetByID_LocalizesTimes(t *testing.T) {
	svc := newTestService(newFakeRepo(upcomingAppointment()), &fakeNotify{}, &fakeBooking{})

	resp, err := svc.GetByID(context.Background(), "appt-1")
	require.NoError(t, err)

	// 14:00 UTC летом = 10:00 в Нью-Йорке
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "10:30", resp.EndTime)
	assert.Equal(t, "America/New_York", resp.Timezone)
	assert.Equal(t, "2026-09-07", resp.Date)
	assert.Equal(t, time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC), resp.StartTimeUTC)
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotify{}, &fakeBooking{})

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_Cancel_Success(t *testing.T) {
	repo := newFakeRepo(upcomingAppointment())
	notify := &fakeNotify{}
	svc := newTestService(repo, notify, &fakeBooking{})

	err := svc.Cancel(context.Background(), "appt-1", &models.CancelAppointmentRequest{
		UserID:             "user-1",
		CancellationReason: ptr.Ptr("не смогу прийти"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"appt-1"}, repo.cancelled)
	assert.Equal(t, domain.StatusCancelled, repo.appointments["appt-1"].Status)

	require.Len(t, notify.cancellations, 1)
	assert.Equal(t, "10:00", notify.cancellations[0].StartTime)
	require.NotNil(t, notify.cancellations[0].Reason)
}

func TestService_Cancel_NoticeFailureTolerated(t *testing.T) {
	repo := newFakeRepo(upcomingAppointment())
	notify := &fakeNotify{err: errors.New("notify down")}
	svc := newTestService(repo, notify, &fakeBooking{})

	err := svc.Cancel(context.Background(), "appt-1", &models.CancelAppointmentRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.appointments["appt-1"].Status)
}

func TestService_Cancel_PastAppointmentRejected(t *testing.T) {
	appt := upcomingAppointment()
	appt.StartTime = testNow().Add(-time.Hour)
	appt.EndTime = appt.StartTime.Add(30 * time.Minute)
	repo := newFakeRepo(appt)
	svc := newTestService(repo, &fakeNotify{}, &fakeBooking{})

	err := svc.Cancel(context.Background(), "appt-1", &models.CancelAppointmentRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, repo.cancelled)
}

func TestService_Cancel_TerminalStatusRejected(t *testing.T) {
	appt := upcomingAppointment()
	appt.Status = domain.StatusCompleted
	svc := newTestService(newFakeRepo(appt), &fakeNotify{}, &fakeBooking{})

	err := svc.Cancel(context.Background(), "appt-1", &models.CancelAppointmentRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestService_Cancel_AccessDenied(t *testing.T) {
	repo := newFakeRepo(upcomingAppointment())
	svc := newTestService(repo, &fakeNotify{}, &fakeBooking{})

	err := svc.Cancel(context.Background(), "appt-1", &models.CancelAppointmentRequest{UserID: "stranger"})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.cancelled)
}

func TestService_UpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.AppointmentStatus
		to      string
		wantErr error
	}{
		{name: "pending to confirmed", from: domain.StatusPending, to: "confirmed"},
		{name: "confirmed to in_progress", from: domain.StatusConfirmed, to: "in_progress"},
		{name: "in_progress to completed", from: domain.StatusInProgress, to: "completed"},
		{name: "confirmed to no_show", from: domain.StatusConfirmed, to: "no_show"},
		{name: "completed is terminal", from: domain.StatusCompleted, to: "confirmed", wantErr: ErrInvalidTransition},
		{name: "pending cannot complete", from: domain.StatusPending, to: "completed", wantErr: ErrInvalidTransition},
		{name: "cancel not allowed here", from: domain.StatusConfirmed, to: "cancelled", wantErr: ErrInvalidStatus},
		{name: "reschedule not allowed here", from: domain.StatusConfirmed, to: "rescheduled", wantErr: ErrInvalidStatus},
		{name: "unknown status", from: domain.StatusConfirmed, to: "teleported", wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := upcomingAppointment()
			appt.Status = tt.from
			svc := newTestService(newFakeRepo(appt), &fakeNotify{}, &fakeBooking{})

			resp, err := svc.UpdateStatus(context.Background(), "appt-1", &models.UpdateStatusRequest{
				UserID: "user-1",
				Status: tt.to,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, resp.Status)
		})
	}
}

func TestService_Reschedule_Success(t *testing.T) {
	repo := newFakeRepo(upcomingAppointment())
	newAppt := upcomingAppointment()
	newAppt.ID = "appt-2"
	newAppt.Status = domain.StatusPending
	newAppt.RescheduledFrom = ptr.Ptr("appt-1")
	booking := &fakeBooking{resp: &book_appointment.Response{Appointment: newAppt}}
	svc := newTestService(repo, &fakeNotify{}, booking)

	resp, err := svc.Reschedule(context.Background(), "appt-1", &models.RescheduleAppointmentRequest{
		UserID:    "user-1",
		Date:      time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		StartTime: "11:00",
		EndTime:   "11:30",
	})
	require.NoError(t, err)

	// Новая запись ссылается на исходную и наследует пациента и тип
	require.NotNil(t, booking.lastReq)
	assert.Equal(t, "pat-1", *booking.lastReq.PatientID)
	assert.Equal(t, "appt-1", *booking.lastReq.RescheduledFrom)
	assert.Equal(t, "consultation", *booking.lastReq.Type)

	// Исходная запись переведена в rescheduled
	assert.Equal(t, domain.StatusRescheduled, repo.appointments["appt-1"].Status)
	assert.Equal(t, "appt-2", resp.ID)
}

func TestService_Reschedule_ConflictLeavesOriginalUntouched(t *testing.T) {
	repo := newFakeRepo(upcomingAppointment())
	booking := &fakeBooking{err: book_appointment.ErrSlotConflict}
	svc := newTestService(repo, &fakeNotify{}, booking)

	_, err := svc.Reschedule(context.Background(), "appt-1", &models.RescheduleAppointmentRequest{
		UserID:    "user-1",
		Date:      time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		StartTime: "11:00",
		EndTime:   "11:30",
	})
	assert.ErrorIs(t, err, book_appointment.ErrSlotConflict)
	assert.Equal(t, domain.StatusConfirmed, repo.appointments["appt-1"].Status)
}

func TestService_Reschedule_TerminalStatusRejected(t *testing.T) {
	appt := upcomingAppointment()
	appt.Status = domain.StatusCancelled
	svc := newTestService(newFakeRepo(appt), &fakeNotify{}, &fakeBooking{})

	_, err := svc.Reschedule(context.Background(), "appt-1", &models.RescheduleAppointmentRequest{
		UserID:    "user-1",
		Date:      time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		StartTime: "11:00",
		EndTime:   "11:30",
	})
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestService_ListByDoctor_FiltersStatus(t *testing.T) {
	a1 := upcomingAppointment()
	a2 := upcomingAppointment()
	a2.ID = "appt-2"
	a2.Status = domain.StatusCancelled
	svc := newTestService(newFakeRepo(a1, a2), &fakeNotify{}, &fakeBooking{})

	resp, err := svc.ListByDoctor(context.Background(), &models.ListByDoctorRequest{
		DoctorID: "doc-1",
		Status:   ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "appt-1", resp.Appointments[0].ID)
}

func TestService_ListByPatient_UnknownHospitalFallsBackToUTC(t *testing.T) {
	appt := upcomingAppointment()
	appt.HospitalID = "hosp-unknown"
	svc := newTestService(newFakeRepo(appt), &fakeNotify{}, &fakeBooking{})

	resp, err := svc.ListByPatient(context.Background(), &models.ListByPatientRequest{PatientID: "pat-1"})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "UTC", resp.Appointments[0].Timezone)
	assert.Equal(t, "14:00", resp.Appointments[0].StartTime)
}
