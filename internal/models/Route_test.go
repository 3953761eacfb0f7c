package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{StatusDraft, StatusActive, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusCompleted, false},
		{StatusDraft, StatusDraft, false},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, true},
		{StatusActive, StatusDraft, false},
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusDraft, false},
		{StatusCancelled, StatusActive, false},
		{"bogus", StatusActive, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestHasOriginAndDestination(t *testing.T) {
	route := Route{Stops: []Stop{
		{Seq: 1, Type: StopTypeOrigin},
		{Seq: 2, Type: StopTypeWaypoint},
	}}
	assert.False(t, route.HasOriginAndDestination())

	route.Stops = append(route.Stops, Stop{Seq: 3, Type: StopTypeDestination})
	assert.True(t, route.HasOriginAndDestination())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusActive, StatusCompleted, StatusCancelled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("archived"))
}
