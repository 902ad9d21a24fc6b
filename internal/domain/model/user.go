package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// NotificationPreferences are the per-user flags gating dispatch. Nil fields
// mean the user never set the flag and the default applies.
type NotificationPreferences struct {
	ReplyToExercise *bool `json:"reply_to_exercise,omitempty"`
	ReplyToComment  *bool `json:"reply_to_comment,omitempty"`
	LikeOnExercise  *bool `json:"like_on_exercise,omitempty"`
}

// DefaultPreferences are applied wherever a flag was never set explicitly:
// reply notifications on, like notifications off.
func DefaultPreferences() EffectivePreferences {
	return EffectivePreferences{
		ReplyToExercise: true,
		ReplyToComment:  true,
		LikeOnExercise:  false,
	}
}

// EffectivePreferences is the fully resolved flag set used by dispatch.
type EffectivePreferences struct {
	ReplyToExercise bool `json:"reply_to_exercise"`
	ReplyToComment  bool `json:"reply_to_comment"`
	LikeOnExercise  bool `json:"like_on_exercise"`
}

type User struct {
	ID             string                  `json:"id"`
	Username       string                  `json:"username"`
	Email          string                  `json:"email"`
	HashedPassword string                  `json:"-"` // Not exposed
	DisplayName    string                  `json:"display_name"`
	AvatarURL      string                  `json:"avatar_url"`
	Role           string                  `json:"role"`
	IsActive       bool                    `json:"is_active"`
	Preferences    NotificationPreferences `json:"preferences"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// EffectivePreferences resolves the stored flags against the defaults.
func (u *User) EffectivePreferences() EffectivePreferences {
	prefs := DefaultPreferences()
	if u.Preferences.ReplyToExercise != nil {
		prefs.ReplyToExercise = *u.Preferences.ReplyToExercise
	}
	if u.Preferences.ReplyToComment != nil {
		prefs.ReplyToComment = *u.Preferences.ReplyToComment
	}
	if u.Preferences.LikeOnExercise != nil {
		prefs.LikeOnExercise = *u.Preferences.LikeOnExercise
	}
	return prefs
}
