package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
	"github.com/m04kA/HMS-AppointmentService/internal/service/reminder/models"
)

type fakeRepo struct {
	mu           sync.Mutex
	appointments map[string]*domain.Appointment
	markErr      error
}

func newFakeRepo(appts ...*domain.Appointment) *fakeRepo {
	m := map[string]*domain.Appointment{}
	for _, a := range appts {
		m[a.ID] = a
	}
	return &fakeRepo{appointments: m}
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeRepo) GetForReminder(_ context.Context, hospitalID *string, from, to time.Time) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range f.appointments {
		if a.Status != domain.StatusConfirmed || a.ReminderSent {
			continue
		}
		if hospitalID != nil && a.HospitalID != *hospitalID {
			continue
		}
		if a.StartTime.Before(from) || !a.StartTime.Before(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) CountForReminder(_ context.Context, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, a := range f.appointments {
		if a.Status != domain.StatusConfirmed {
			continue
		}
		if a.StartTime.Before(from) || !a.StartTime.Before(to) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeRepo) MarkReminderSent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	a, ok := f.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.ReminderSent = true
	return nil
}

type fakeRegistry struct {
	hospitals []registryservice.Hospital
	patients  map[string]*registryservice.Patient
}

func (f *fakeRegistry) ListActiveHospitals(_ context.Context) ([]registryservice.Hospital, error) {
	return f.hospitals, nil
}

func (f *fakeRegistry) GetHospital(_ context.Context, id string) (*registryservice.Hospital, error) {
	for i := range f.hospitals {
		if f.hospitals[i].ID == id {
			return &f.hospitals[i], nil
		}
	}
	return nil, registryservice.ErrHospitalNotFound
}

func (f *fakeRegistry) GetPatient(_ context.Context, id string) (*registryservice.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, registryservice.ErrPatientNotFound
	}
	return p, nil
}

type fakeNotify struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
}

func (f *fakeNotify) SendReminder(_ context.Context, n *notifyservice.AppointmentNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[n.AppointmentID]; ok {
		return err
	}
	f.sent = append(f.sent, n.AppointmentID)
	return nil
}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// 13:00 UTC = 09:00 в Нью-Йорке летом
func sweepHourNow() time.Time {
	return time.Date(2026, 9, 6, 13, 0, 0, 0, time.UTC)
}

func confirmedTomorrow(id string) *domain.Appointment {
	return &domain.Appointment{
		ID:                id,
		HospitalID:        "hosp-1",
		DoctorID:          "doc-1",
		PatientID:         "pat-1",
		AppointmentNumber: "APT202609070001",
		StartTime:         time.Date(2026, 9, 7, 14, 0, 0, 0, time.UTC),
		EndTime:           time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC),
		Status:            domain.StatusConfirmed,
	}
}

func defaultRegistry() *fakeRegistry {
	return &fakeRegistry{
		hospitals: []registryservice.Hospital{
			{ID: "hosp-1", Timezone: "America/New_York", IsActive: true},
		},
		patients: map[string]*registryservice.Patient{
			"pat-1": {ID: "pat-1", UserID: "user-1", ContactEmail: "p@example.com"},
		},
	}
}

func newTestService(repo *fakeRepo, reg *fakeRegistry, notify *fakeNotify, now time.Time) *Service {
	return NewService(repo, reg, notify, &fixedTime{now: now}, 9, 4, nopLogger{})
}

func TestService_RunSweep_SendsAndMarks(t *testing.T) {
	repo := newFakeRepo(confirmedTomorrow("appt-1"), confirmedTomorrow("appt-2"))
	notify := &fakeNotify{}
	svc := newTestService(repo, defaultRegistry(), notify, sweepHourNow())

	result, err := svc.RunSweep(context.Background(), models.ModeScheduled)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Hospitals)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.ElementsMatch(t, []string{"appt-1", "appt-2"}, notify.sent)
	assert.True(t, repo.appointments["appt-1"].ReminderSent)
	assert.True(t, repo.appointments["appt-2"].ReminderSent)
}

func TestService_RunSweep_SecondSweepIsNoop(t *testing.T) {
	repo := newFakeRepo(confirmedTomorrow("appt-1"))
	notify := &fakeNotify{}
	svc := newTestService(repo, defaultRegistry(), notify, sweepHourNow())

	_, err := svc.RunSweep(context.Background(), models.ModeScheduled)
	require.NoError(t, err)

	result, err := svc.RunSweep(context.Background(), models.ModeScheduled)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Len(t, notify.sent, 1)
}

func TestService_RunSweep_HourGate(t *testing.T) {
	repo := newFakeRepo(confirmedTomorrow("appt-1"))
	notify := &fakeNotify{}

	// 18:00 UTC = 14:00 в Нью-Йорке, не час рассылки
	svc := newTestService(repo, defaultRegistry(), notify, time.Date(2026, 9, 6, 18, 0, 0, 0, time.UTC))

	result, err := svc.RunSweep(context.Background(), models.ModeScheduled)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Hospitals)
	assert.Empty(t, notify.sent)
	assert.False(t, repo.appointments["appt-1"].ReminderSent)
}

func TestService_RunSweep_ManualIgnoresHourGate(t *testing.T) {
	repo := newFakeRepo(confirmedTomorrow("appt-1"))
	notify := &fakeNotify{}
	svc := newTestService(repo, defaultRegistry(), notify, time.Date(2026, 9, 6, 18, 0, 0, 0, time.UTC))

	result, err := svc.RunSweep(context.Background(), models.ModeManual)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.True(t, repo.appointments["appt-1"].ReminderSent)
}

func TestService_RunSweep_PartialFailure(t *testing.T) {
	repo := newFakeRepo(confirmedTomorrow("appt-1"), confirmedTomorrow("appt-2"))
	notify := &fakeNotify{failFor: map[string]error{"appt-2": errors.New("smtp down")}}
	svc := newTestService(repo, defaultRegistry(), notify, sweepHourNow())

	result, err := svc.RunSweep(context.Background(), models.ModeScheduled)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, repo.appointments["appt-1"].ReminderSent)
	// Неотправленное напоминание остаётся на следующий проход
	assert.False(t, repo.appointments["appt-2"].ReminderSent)
}

func TestService_RunSweep_MarkFailureCountsAsFailed(t *testing.T) {
	repo := newFakeRepo(confirmedTomorrow("appt-1"))
	repo.markErr = errors.New("db down")
	notify := &fakeNotify{}
	svc := newTestService(repo, defaultRegistry(), notify, sweepHourNow())

	result, err := svc.RunSweep(context.Background(), models.ModeScheduled)
	require.NoError(t, err)

	// Отправка прошла, но флаг не записан: следующий проход повторит отправку
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, notify.sent, 1)
	assert.False(t, repo.appointments["appt-1"].ReminderSent)
}

func TestService_SendForAppointment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := newFakeRepo(confirmedTomorrow("appt-1"))
		notify := &fakeNotify{}
		svc := newTestService(repo, defaultRegistry(), notify, sweepHourNow())

		err := svc.SendForAppointment(context.Background(), "appt-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"appt-1"}, notify.sent)
		assert.True(t, repo.appointments["appt-1"].ReminderSent)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), defaultRegistry(), &fakeNotify{}, sweepHourNow())
		err := svc.SendForAppointment(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("already sent", func(t *testing.T) {
		appt := confirmedTomorrow("appt-1")
		appt.ReminderSent = true
		svc := newTestService(newFakeRepo(appt), defaultRegistry(), &fakeNotify{}, sweepHourNow())
		err := svc.SendForAppointment(context.Background(), "appt-1")
		assert.ErrorIs(t, err, ErrAlreadySent)
	})

	t.Run("not confirmed", func(t *testing.T) {
		appt := confirmedTomorrow("appt-1")
		appt.Status = domain.StatusPending
		svc := newTestService(newFakeRepo(appt), defaultRegistry(), &fakeNotify{}, sweepHourNow())
		err := svc.SendForAppointment(context.Background(), "appt-1")
		assert.ErrorIs(t, err, ErrNotConfirmed)
	})

	t.Run("dispatch failure", func(t *testing.T) {
		notify := &fakeNotify{failFor: map[string]error{"appt-1": errors.New("smtp down")}}
		svc := newTestService(newFakeRepo(confirmedTomorrow("appt-1")), defaultRegistry(), notify, sweepHourNow())
		err := svc.SendForAppointment(context.Background(), "appt-1")
		assert.ErrorIs(t, err, ErrDispatchFailed)
	})
}

func TestService_UpcomingReminders(t *testing.T) {
	repo := newFakeRepo(confirmedTomorrow("appt-1"), confirmedTomorrow("appt-2"))
	repo.appointments["appt-2"].StartTime = time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, defaultRegistry(), &fakeNotify{}, sweepHourNow())

	resp, err := svc.UpcomingReminders(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, resp.Days, 3)
	assert.Equal(t, models.UpcomingDay{Date: "2026-09-06", Count: 0}, resp.Days[0])
	assert.Equal(t, models.UpcomingDay{Date: "2026-09-07", Count: 1}, resp.Days[1])
	assert.Equal(t, models.UpcomingDay{Date: "2026-09-08", Count: 1}, resp.Days[2])
}
