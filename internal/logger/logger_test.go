package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsContactDetails(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("respondent notified",
		"case_id", 12,
		"contact_number", "09171234567",
		"recipient_number", "09179998888",
		"admin_password", "hunter2",
		"filed_by_user_id", 7,
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()

	assert.EqualValues(t, 12, fields["case_id"])
	assert.Equal(t, "[REDACTED]", fields["contact_number"])
	assert.Equal(t, "[REDACTED]", fields["recipient_number"])
	assert.Equal(t, "[REDACTED]", fields["admin_password"])
	hashed, ok := fields["filed_by_user_id"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(hashed, "hash:"))
}

func TestWithSanitizesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core)).With("phone", "0917")

	log.Warn("sms queued")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "[REDACTED]", logs.All()[0].ContextMap()["phone"])
}

func TestOddKeyValueCountKeepsTrailingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"case_number", "2026-001", "dangling"})
	assert.Equal(t, []interface{}{"case_number", "2026-001", "dangling"}, out)
}

func TestNopDoesNotPanic(t *testing.T) {
	Nop().Error("ignored", "k", "v")
}
