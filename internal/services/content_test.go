package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTutorialPages(t *testing.T) {
	pages := Tutorial()
	require.Len(t, pages, 3)
	assert.Equal(t, "Welcome to SaferPlace", pages[0].Title)
	assert.Equal(t, "rocket", pages[0].Icon)
	assert.Equal(t, "check-circle", pages[2].Icon)

	// Callers get a copy.
	pages[0].Title = "changed"
	assert.Equal(t, "Welcome to SaferPlace", Tutorial()[0].Title)
}

func TestIntroductionMessages(t *testing.T) {
	msgs := Introduction()
	require.Len(t, msgs, 3)
	for i, m := range msgs {
		assert.Equal(t, int64(i+1), m.ID)
		assert.NotEmpty(t, m.Title)
		assert.NotEmpty(t, m.Content)
	}
}
