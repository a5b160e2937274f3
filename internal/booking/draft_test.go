package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate() time.Time {
	return time.Date(2023, 10, 15, 0, 0, 0, 0, time.UTC)
}

func TestNewDraftStartsAtDateStep(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, StepDate, d.Step)
	assert.True(t, d.Date.IsZero())
	assert.Empty(t, d.TimeSlot)
	assert.Empty(t, d.ServiceIDs)
}

func TestNewDraftWithServicePreselects(t *testing.T) {
	d := NewDraftWithService("s1")
	assert.Equal(t, StepDate, d.Step)
	assert.Equal(t, []string{"s1"}, d.ServiceIDs)

	empty := NewDraftWithService("")
	assert.Empty(t, empty.ServiceIDs)
}

func TestAdvanceBlockedByValidation(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*Draft)
		step    Step
		message string
	}{
		{
			name:    "no date selected",
			prepare: func(d *Draft) {},
			step:    StepDate,
			message: "select a date",
		},
		{
			name: "no time selected",
			prepare: func(d *Draft) {
				d.SelectDate(testDate())
				d.Step = StepTime
			},
			step:    StepTime,
			message: "select a time",
		},
		{
			name: "no services selected",
			prepare: func(d *Draft) {
				d.SelectDate(testDate())
				require.NoError(t, d.SelectTime("10:00"))
				d.Step = StepService
			},
			step:    StepService,
			message: "select at least one service",
		},
		{
			name: "vehicle info incomplete",
			prepare: func(d *Draft) {
				d.SelectDate(testDate())
				require.NoError(t, d.SelectTime("10:00"))
				d.ToggleService("s1")
				d.Vehicle = VehicleInfo{Make: "Toyota", Model: "Camry"} // year missing
				d.Step = StepInfo
			},
			step:    StepInfo,
			message: "fill vehicle info",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			tt.prepare(d)
			before := d.Step

			ready, err := d.Advance()

			assert.False(t, ready)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.step, verr.Step)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, before, d.Step, "step must not move on validation failure")
		})
	}
}

func TestAdvanceWalksAllSteps(t *testing.T) {
	d := NewDraft()
	d.SelectDate(testDate())
	require.NoError(t, d.SelectTime("10:00"))
	d.ToggleService("s1")
	d.Vehicle = VehicleInfo{Make: "Toyota", Model: "Camry", Year: "2019"}

	want := []Step{StepTime, StepService, StepInfo, StepConfirm}
	for _, next := range want {
		ready, err := d.Advance()
		require.NoError(t, err)
		assert.False(t, ready)
		assert.Equal(t, next, d.Step)
	}

	// At confirm the draft reports ready without moving.
	ready, err := d.Advance()
	require.NoError(t, err)
	assert.True(t, ready)
	assert.Equal(t, StepConfirm, d.Step)
}

func TestRetreat(t *testing.T) {
	d := NewDraft()
	d.Step = StepService

	d.Retreat()
	assert.Equal(t, StepTime, d.Step)

	d.Retreat()
	assert.Equal(t, StepDate, d.Step)

	// No-op at the first step.
	d.Retreat()
	assert.Equal(t, StepDate, d.Step)
}

func TestRetreatKeepsData(t *testing.T) {
	d := NewDraft()
	d.SelectDate(testDate())
	require.NoError(t, d.SelectTime("10:00"))
	d.Step = StepService

	d.Retreat()

	assert.False(t, d.Date.IsZero())
	assert.Equal(t, "10:00", d.TimeSlot)
}

func TestToggleService(t *testing.T) {
	d := NewDraft()

	d.ToggleService("s1")
	d.ToggleService("s3")
	assert.Equal(t, []string{"s1", "s3"}, d.ServiceIDs)
	assert.True(t, d.HasService("s1"))

	d.ToggleService("s1")
	assert.Equal(t, []string{"s3"}, d.ServiceIDs)
	assert.False(t, d.HasService("s1"))
}

func TestSelectTimeRejectsUnknownSlot(t *testing.T) {
	d := NewDraft()
	err := d.SelectTime("10:30")
	require.Error(t, err)
	assert.Empty(t, d.TimeSlot)
}

func TestUpdateVehicleField(t *testing.T) {
	d := NewDraft()
	require.NoError(t, d.UpdateVehicleField(FieldMake, "Toyota"))
	require.NoError(t, d.UpdateVehicleField(FieldModel, "Camry"))
	require.NoError(t, d.UpdateVehicleField(FieldYear, "2019"))
	require.NoError(t, d.UpdateVehicleField(FieldVIN, "JT2BF22K1W0123456"))

	assert.Equal(t, VehicleInfo{
		Make:  "Toyota",
		Model: "Camry",
		Year:  "2019",
		VIN:   "JT2BF22K1W0123456",
	}, d.Vehicle)

	assert.Error(t, d.UpdateVehicleField("color", "red"))
}

func TestResetClearsEverything(t *testing.T) {
	d := NewDraft()
	d.SelectDate(testDate())
	require.NoError(t, d.SelectTime("10:00"))
	d.ToggleService("s1")
	d.Vehicle = VehicleInfo{Make: "Toyota", Model: "Camry", Year: "2019"}
	d.Step = StepConfirm

	d.Reset()

	assert.Equal(t, StepDate, d.Step)
	assert.True(t, d.Date.IsZero())
	assert.Empty(t, d.TimeSlot)
	assert.Empty(t, d.ServiceIDs)
	assert.Equal(t, VehicleInfo{}, d.Vehicle)
}
