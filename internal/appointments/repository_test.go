package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestCreateInsertsPendingAppointment(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`INSERT INTO appointments`).
		WithArgs(pgxmock.AnyArg(), "user-1", "veh-1", "2023-10-15", "10:00", "10:30", int64(1200), StatusPending, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewRepositoryWithDB(mock)
	id, err := repo.Create(context.Background(), NewAppointment{
		UserID:     "user-1",
		VehicleID:  "veh-1",
		Date:       "2023-10-15",
		StartTime:  "10:00",
		EndTime:    "10:30",
		TotalPrice: 1200,
		Status:     StatusPending,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == "" {
		t.Error("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestInsertServiceItemsOnePerService(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`INSERT INTO appointment_services`).
		WithArgs(pgxmock.AnyArg(), "appt-1", "s1", int64(1200)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO appointment_services`).
		WithArgs(pgxmock.AnyArg(), "appt-1", "s3", int64(2800)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewRepositoryWithDB(mock)
	err := repo.InsertServiceItems(context.Background(), []ServiceItem{
		{AppointmentID: "appt-1", ServiceID: "s1", Price: 1200},
		{AppointmentID: "appt-1", ServiceID: "s3", Price: 2800},
	})
	if err != nil {
		t.Fatalf("InsertServiceItems failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func appointmentRow(id string) *pgxmock.Rows {
	date, _ := time.Parse("2006-01-02", "2023-10-15")
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "user_id", "vehicle_id", "appointment_date", "start_time", "end_time",
		"total_price", "status", "notes", "created_at", "updated_at", "make", "model", "year",
	}).AddRow(id, "user-1", "veh-1", date, "10:00", "10:30", int64(1200), StatusPending, "", now, now, "Toyota", "Camry", 2019)
}

func TestGetForUserFormatsDate(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`WHERE a\.id = \$1 AND a\.user_id = \$2`).
		WithArgs("appt-1", "user-1").
		WillReturnRows(appointmentRow("appt-1"))

	repo := NewRepositoryWithDB(mock)
	appt, err := repo.GetForUser(context.Background(), "appt-1", "user-1")
	if err != nil {
		t.Fatalf("GetForUser failed: %v", err)
	}
	if appt.Date != "2023-10-15" {
		t.Errorf("Date = %q, want 2023-10-15", appt.Date)
	}
	if appt.VehicleMake != "Toyota" {
		t.Errorf("VehicleMake = %q", appt.VehicleMake)
	}
}

func TestGetForUserNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`WHERE a\.id = \$1 AND a\.user_id = \$2`).
		WithArgs("appt-x", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	repo := NewRepositoryWithDB(mock)
	_, err := repo.GetForUser(context.Background(), "appt-x", "user-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAllWithStatusFilter(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`WHERE a\.status = \$1`).
		WithArgs(StatusPending, 50, 0).
		WillReturnRows(appointmentRow("appt-1"))

	repo := NewRepositoryWithDB(mock)
	out, err := repo.ListAll(context.Background(), StatusPending, 50, 0)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(out) != 1 || out[0].Status != StatusPending {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	mock := newMock(t)
	repo := NewRepositoryWithDB(mock)

	if err := repo.UpdateStatus(context.Background(), "appt-1", "sideways"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`UPDATE appointments SET status`).
		WithArgs("appt-x", StatusConfirmed, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewRepositoryWithDB(mock)
	err := repo.UpdateStatus(context.Background(), "appt-x", StatusConfirmed)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
