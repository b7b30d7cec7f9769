package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession_Expired(t *testing.T) {
	t.Parallel()

	exp := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: exp}

	require.False(t, s.Expired(exp.Add(-time.Millisecond)))
	require.True(t, s.Expired(exp))
	require.True(t, s.Expired(exp.Add(time.Second)))
}
