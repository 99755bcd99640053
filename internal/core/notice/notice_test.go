package notice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n := New(KindSuccess, MsgCreated, now, 0)

	assert.Equal(t, DefaultTTL, n.TTL)
	assert.Equal(t, now.Add(3200*time.Millisecond), n.ExpiresAt())
}

func TestNotice_Visible(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n := New(KindError, MsgCreateFailed, now, time.Second)

	assert.True(t, n.Visible(now))
	assert.True(t, n.Visible(now.Add(999*time.Millisecond)))
	assert.False(t, n.Visible(now.Add(time.Second)))
	assert.False(t, n.Visible(now.Add(time.Minute)))
}

func TestNotice_ZeroValueNotVisible(t *testing.T) {
	assert.False(t, Notice{}.Visible(time.Now()))
}
