package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"autoshop/internal/appointments"
	"autoshop/internal/catalog"
	"autoshop/internal/identity"
	"autoshop/internal/notify"
	"autoshop/internal/observability/metrics"
	"autoshop/pkg/logging"
)

var bookingTracer = otel.Tracer("autoshop.internal.booking")

// Pre-write rejections. Both leave the draft untouched and cause zero
// store writes.
var (
	ErrInsufficientData       = errors.New("booking: insufficient data")
	ErrAuthenticationRequired = errors.New("booking: authentication required")
	ErrSubmissionInFlight     = errors.New("booking: submission already in progress")
)

// RemoteError wraps a failure of one of the sequential store calls. The
// stage names which call failed; the user always sees the same generic
// message regardless of stage.
type RemoteError struct {
	Stage string
	Err   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("booking: %s failed: %v", e.Stage, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// VehicleStore resolves and creates vehicles.
type VehicleStore interface {
	Find(ctx context.Context, userID, make, model string, year int) (string, error)
	Create(ctx context.Context, userID, make, model string, year int, vin string) (string, error)
}

// AppointmentStore creates appointments and their line items.
type AppointmentStore interface {
	Create(ctx context.Context, appt appointments.NewAppointment) (string, error)
	InsertServiceItems(ctx context.Context, items []appointments.ServiceItem) error
}

// Service runs the booking submission sequence: resolve identity, find or
// create the vehicle, insert the appointment, insert one line item per
// selected service. The calls run strictly one after another; any failure
// aborts the remainder with no retry and no compensation for steps that
// already succeeded.
type Service struct {
	vehicles      VehicleStore
	appointments  AppointmentStore
	catalog       catalog.Lister
	idp           identity.Provider
	notifier      notify.Notifier
	mailer        notify.EmailSender
	metrics       *metrics.BookingMetrics
	logger        *logging.Logger
	dashboardPath string

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Config wires the booking service dependencies.
type Config struct {
	Vehicles      VehicleStore
	Appointments  AppointmentStore
	Catalog       catalog.Lister
	Identity      identity.Provider
	Notifier      notify.Notifier
	Mailer        notify.EmailSender // optional
	Metrics       *metrics.BookingMetrics
	Logger        *logging.Logger
	DashboardPath string
}

// NewService constructs a booking service.
func NewService(cfg Config) *Service {
	if cfg.Vehicles == nil || cfg.Appointments == nil || cfg.Catalog == nil || cfg.Identity == nil {
		panic("booking: vehicles, appointments, catalog and identity are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	dashboardPath := cfg.DashboardPath
	if dashboardPath == "" {
		dashboardPath = "/dashboard"
	}
	return &Service{
		vehicles:      cfg.Vehicles,
		appointments:  cfg.Appointments,
		catalog:       cfg.Catalog,
		idp:           cfg.Identity,
		notifier:      notifier,
		mailer:        cfg.Mailer,
		metrics:       cfg.Metrics,
		logger:        logger,
		dashboardPath: dashboardPath,
		inFlight:      make(map[string]struct{}),
	}
}

// Result describes a successfully created booking.
type Result struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	TotalPrice    int64  `json:"total_price"`
	RedirectPath  string `json:"redirect"`
}

// Submit runs the submission sequence for a draft that has reached the
// confirm step. On success the draft is reset; on any failure it is left
// untouched so the user can retry without re-entering data.
func (s *Service) Submit(ctx context.Context, draft *Draft) (*Result, error) {
	start := time.Now()
	ctx, span := bookingTracer.Start(ctx, "booking.submit")
	defer span.End()

	// Defensive re-check before any remote call.
	if draft.Date.IsZero() || draft.TimeSlot == "" || len(draft.ServiceIDs) == 0 {
		s.metrics.ObserveRejected("insufficient_data")
		s.notify(ctx, notify.SeverityError, "Insufficient data", "Please fill in all required fields")
		return nil, ErrInsufficientData
	}

	user, ok := s.idp.CurrentUser(ctx)
	if !ok {
		s.metrics.ObserveRejected("authentication_required")
		s.notify(ctx, notify.SeverityError, "Authentication required", "Please sign in to book a service")
		return nil, ErrAuthenticationRequired
	}
	span.SetAttributes(attribute.String("autoshop.user_id", user.ID))

	// One submission at a time per user. This guards this process only;
	// two sessions on different instances are not mutually excluded.
	if !s.markInFlight(user.ID) {
		s.metrics.ObserveRejected("in_flight")
		return nil, ErrSubmissionInFlight
	}
	defer s.clearInFlight(user.ID)

	services, err := s.catalog.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "catalog", err)
	}

	year, err := strconv.Atoi(draft.Vehicle.Year)
	if err != nil {
		return nil, s.fail(ctx, "vehicle", fmt.Errorf("invalid year %q: %w", draft.Vehicle.Year, err))
	}

	// Find-or-create, no uniqueness lock: concurrent duplicate submissions
	// from two sessions may race to create near-identical vehicles.
	vehicleID, err := s.vehicles.Find(ctx, user.ID, draft.Vehicle.Make, draft.Vehicle.Model, year)
	if err != nil {
		return nil, s.fail(ctx, "vehicle", err)
	}
	if vehicleID == "" {
		vehicleID, err = s.vehicles.Create(ctx, user.ID, draft.Vehicle.Make, draft.Vehicle.Model, year, draft.Vehicle.VIN)
		if err != nil {
			return nil, s.fail(ctx, "vehicle", err)
		}
	}

	totalPrice := TotalPrice(draft.ServiceIDs, services)
	endTime, err := EndTime(draft.TimeSlot, TotalDuration(draft.ServiceIDs, services))
	if err != nil {
		return nil, s.fail(ctx, "appointment", err)
	}

	date := draft.Date.Format("2006-01-02")
	startTime := draft.TimeSlot
	appointmentID, err := s.appointments.Create(ctx, appointments.NewAppointment{
		UserID:     user.ID,
		VehicleID:  vehicleID,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		TotalPrice: totalPrice,
		Status:     appointments.StatusPending,
	})
	if err != nil {
		return nil, s.fail(ctx, "appointment", err)
	}

	// Prices are snapshotted now; later catalog changes never alter a
	// past booking.
	items := make([]appointments.ServiceItem, 0, len(draft.ServiceIDs))
	for _, serviceID := range draft.ServiceIDs {
		var price int64
		if svc, found := catalog.FindByID(services, serviceID); found {
			price = svc.Price
		}
		items = append(items, appointments.ServiceItem{
			AppointmentID: appointmentID,
			ServiceID:     serviceID,
			Price:         price,
		})
	}
	if err := s.appointments.InsertServiceItems(ctx, items); err != nil {
		// The appointment row already exists without its line items; this
		// is an accepted inconsistency, not rolled back.
		return nil, s.fail(ctx, "line_items", err)
	}

	s.metrics.ObserveCreated()
	s.metrics.ObserveSubmitDuration(time.Since(start).Seconds())
	s.logger.Info("booking created",
		"appointment_id", appointmentID,
		"user_id", user.ID,
		"date", date,
		"start_time", startTime,
		"total_price", totalPrice,
	)
	s.notify(ctx, notify.SeveritySuccess, "Booking created",
		fmt.Sprintf("You are booked for %s at %s", date, startTime))
	s.sendConfirmation(user, date, startTime, totalPrice)

	draft.Reset()

	return &Result{
		AppointmentID: appointmentID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		TotalPrice:    totalPrice,
		RedirectPath:  s.dashboardPath,
	}, nil
}

func (s *Service) fail(ctx context.Context, stage string, err error) error {
	s.metrics.ObserveFailed(stage)
	s.logger.Error("booking submission failed", "stage", stage, "error", err)
	s.notify(ctx, notify.SeverityError, "Could not create booking", "Please try again later")
	return &RemoteError{Stage: stage, Err: err}
}

func (s *Service) notify(ctx context.Context, severity notify.Severity, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notify.Notification{Title: title, Message: message, Severity: severity})
}

// sendConfirmation emails the user fire-and-forget; a delivery failure
// never fails the booking.
func (s *Service) sendConfirmation(user *identity.User, date, startTime string, totalPrice int64) {
	if s.mailer == nil || user.Email == "" {
		return
	}
	msg := notify.BookingConfirmation(user.Email, user.Name, date, startTime, totalPrice)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Warn("booking confirmation email failed", "error", err)
		}
	}()
}

func (s *Service) markInFlight(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *Service) clearInFlight(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}
