package booking

import (
	"fmt"
	"slices"
	"time"
)

// Step is a position in the booking wizard.
type Step string

const (
	StepDate    Step = "date"
	StepTime    Step = "time"
	StepService Step = "service"
	StepInfo    Step = "info"
	StepConfirm Step = "confirm"
)

// steps is the fixed wizard order. Advance and Retreat are index
// arithmetic over this slice; there is no branching or skipping.
var steps = []Step{StepDate, StepTime, StepService, StepInfo, StepConfirm}

// VehicleField identifies one field of the vehicle info form.
type VehicleField string

const (
	FieldMake  VehicleField = "make"
	FieldModel VehicleField = "model"
	FieldYear  VehicleField = "year"
	FieldVIN   VehicleField = "vin"
)

// VehicleInfo is the car details collected on the info step. Year stays a
// string until submission, matching the form input.
type VehicleInfo struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  string `json:"year"`
	VIN   string `json:"vin,omitempty"`
}

// ValidationError is a local validation failure. The wizard stays on the
// current step; no remote call is involved.
type ValidationError struct {
	Step    Step
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	errSelectDate     = &ValidationError{Step: StepDate, Message: "select a date"}
	errSelectTime     = &ValidationError{Step: StepTime, Message: "select a time"}
	errSelectServices = &ValidationError{Step: StepService, Message: "select at least one service"}
	errFillVehicle    = &ValidationError{Step: StepInfo, Message: "fill vehicle info"}
)

// Draft is the in-progress booking. It lives only in memory for the
// duration of a wizard session and is discarded after submission.
type Draft struct {
	Date       time.Time   `json:"date"` // zero value means unset
	TimeSlot   string      `json:"time"`
	ServiceIDs []string    `json:"service_ids"`
	Vehicle    VehicleInfo `json:"vehicle"`
	Step       Step        `json:"step"`
}

// NewDraft creates an empty draft positioned at the date step.
func NewDraft() *Draft {
	return &Draft{Step: StepDate}
}

// NewDraftWithService creates a draft pre-seeded with one service,
// still starting at the date step. Used for the `service` query parameter.
func NewDraftWithService(serviceID string) *Draft {
	d := NewDraft()
	if serviceID != "" {
		d.ServiceIDs = []string{serviceID}
	}
	return d
}

// Reset returns the draft to its empty initial state.
func (d *Draft) Reset() {
	*d = Draft{Step: StepDate}
}

// SelectDate sets the visit date.
func (d *Draft) SelectDate(t time.Time) {
	d.Date = t
}

// SelectTime sets the visit time. The slot must be one of the fixed labels.
func (d *Draft) SelectTime(slot string) error {
	if !IsValidSlot(slot) {
		return fmt.Errorf("booking: unknown time slot %q", slot)
	}
	d.TimeSlot = slot
	return nil
}

// ToggleService adds the service to the selection, or removes it when
// already selected.
func (d *Draft) ToggleService(serviceID string) {
	if i := slices.Index(d.ServiceIDs, serviceID); i >= 0 {
		d.ServiceIDs = slices.Delete(d.ServiceIDs, i, i+1)
		return
	}
	d.ServiceIDs = append(d.ServiceIDs, serviceID)
}

// HasService reports whether the service is selected.
func (d *Draft) HasService(serviceID string) bool {
	return slices.Contains(d.ServiceIDs, serviceID)
}

// UpdateVehicleField sets one field of the vehicle info form.
func (d *Draft) UpdateVehicleField(field VehicleField, value string) error {
	switch field {
	case FieldMake:
		d.Vehicle.Make = value
	case FieldModel:
		d.Vehicle.Model = value
	case FieldYear:
		d.Vehicle.Year = value
	case FieldVIN:
		d.Vehicle.VIN = value
	default:
		return fmt.Errorf("booking: unknown vehicle field %q", field)
	}
	return nil
}

// validate checks the rule of the current step.
func (d *Draft) validate() *ValidationError {
	switch d.Step {
	case StepDate:
		if d.Date.IsZero() {
			return errSelectDate
		}
	case StepTime:
		if d.TimeSlot == "" {
			return errSelectTime
		}
	case StepService:
		if len(d.ServiceIDs) == 0 {
			return errSelectServices
		}
	case StepInfo:
		if d.Vehicle.Make == "" || d.Vehicle.Model == "" || d.Vehicle.Year == "" {
			return errFillVehicle
		}
	}
	return nil
}

// Advance validates the current step and moves one step forward. At the
// confirm step it does not move; it reports that the draft is ready to
// submit instead. On a validation failure the step is unchanged and the
// returned error carries the step's message.
func (d *Draft) Advance() (readyToSubmit bool, err error) {
	if verr := d.validate(); verr != nil {
		return false, verr
	}
	i := slices.Index(steps, d.Step)
	if i < 0 {
		return false, fmt.Errorf("booking: draft on unknown step %q", d.Step)
	}
	if steps[i] == StepConfirm {
		return true, nil
	}
	d.Step = steps[i+1]
	return false, nil
}

// Retreat moves one step back. It is a no-op at the date step.
func (d *Draft) Retreat() {
	i := slices.Index(steps, d.Step)
	if i > 0 {
		d.Step = steps[i-1]
	}
}
