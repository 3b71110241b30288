package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingHours(t *testing.T) {
	cfg := ClinicConfig{OpenTime: "08:00", CloseTime: "18:00"}

	open, close, err := cfg.WorkingHours()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, open)
	assert.Equal(t, 18*time.Hour, close)
}

func TestWorkingHoursHalfHour(t *testing.T) {
	cfg := ClinicConfig{OpenTime: "09:30", CloseTime: "17:45"}

	open, close, err := cfg.WorkingHours()
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour+30*time.Minute, open)
	assert.Equal(t, 17*time.Hour+45*time.Minute, close)
}

func TestWorkingHoursRejectsInvertedWindow(t *testing.T) {
	cfg := ClinicConfig{OpenTime: "18:00", CloseTime: "08:00"}

	_, _, err := cfg.WorkingHours()
	assert.Error(t, err)
}

func TestWorkingHoursRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "8", "25:00", "08:61", "noon"} {
		cfg := ClinicConfig{OpenTime: raw, CloseTime: "18:00"}
		_, _, err := cfg.WorkingHours()
		assert.Error(t, err, "open_time %q should be rejected", raw)
	}
}
