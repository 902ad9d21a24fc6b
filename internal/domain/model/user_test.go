package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePreferencesDefaults(t *testing.T) {
	u := &User{ID: "u1"}

	prefs := u.EffectivePreferences()
	assert.True(t, prefs.ReplyToExercise)
	assert.True(t, prefs.ReplyToComment)
	assert.False(t, prefs.LikeOnExercise)
}

func TestEffectivePreferencesOverrides(t *testing.T) {
	off, on := false, true
	u := &User{
		ID: "u1",
		Preferences: NotificationPreferences{
			ReplyToExercise: &off,
			LikeOnExercise:  &on,
		},
	}

	prefs := u.EffectivePreferences()
	assert.False(t, prefs.ReplyToExercise)
	assert.True(t, prefs.ReplyToComment, "unset flag keeps its default")
	assert.True(t, prefs.LikeOnExercise)
}
