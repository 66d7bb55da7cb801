package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Streak int `json:"streak"`
	Rate   int `json:"rate"`
}

func TestProgressCache_RoundTrip(t *testing.T) {
	c := NewProgressCache(1, time.Minute)
	c.Set("p1", "2024-01-08", summary{Streak: 2, Rate: 75})

	var got summary
	require.True(t, c.Get("p1", "2024-01-08", &got))
	assert.Equal(t, summary{Streak: 2, Rate: 75}, got)
}

func TestProgressCache_MissOnOtherDay(t *testing.T) {
	c := NewProgressCache(1, time.Minute)
	c.Set("p1", "2024-01-08", summary{Streak: 2})

	var got summary
	assert.False(t, c.Get("p1", "2024-01-09", &got))
	assert.False(t, c.Get("p2", "2024-01-08", &got))
}

func TestProgressCache_Invalidate(t *testing.T) {
	c := NewProgressCache(1, time.Minute)
	c.Set("p1", "2024-01-08", summary{Streak: 2})
	c.Set("p2", "2024-01-08", summary{Streak: 5})

	c.Invalidate("p1")

	var got summary
	assert.False(t, c.Get("p1", "2024-01-08", &got))
	assert.True(t, c.Get("p2", "2024-01-08", &got))
	assert.Equal(t, 5, got.Streak)
}

func TestProgressCache_OverwriteReplacesDay(t *testing.T) {
	c := NewProgressCache(0, 0)
	c.Set("p1", "2024-01-08", summary{Streak: 1})
	c.Set("p1", "2024-01-09", summary{Streak: 2})

	var got summary
	assert.False(t, c.Get("p1", "2024-01-08", &got))
	require.True(t, c.Get("p1", "2024-01-09", &got))
	assert.Equal(t, 2, got.Streak)
}
