package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactReplaceAndDuplicate(t *testing.T) {
	msg := &ChatMessage{ID: uuid.New()}
	alice := uuid.New()
	bob := uuid.New()

	assert.True(t, msg.React(alice, "", ReactionLike))
	assert.Equal(t, 1, msg.LikeCount())

	// same reaction again is a no-op
	assert.False(t, msg.React(alice, "", ReactionLike))
	assert.Equal(t, 1, msg.LikeCount())

	// opposite reaction replaces, not accumulates
	assert.True(t, msg.React(alice, "", ReactionDislike))
	assert.Equal(t, 0, msg.LikeCount())
	assert.Equal(t, 1, msg.DislikeCount())

	assert.True(t, msg.React(bob, "", ReactionLike))
	assert.Equal(t, 1, msg.LikeCount())
	assert.Equal(t, 1, msg.DislikeCount())
}

func TestRemoveReaction(t *testing.T) {
	msg := &ChatMessage{ID: uuid.New()}
	alice := uuid.New()

	assert.False(t, msg.RemoveReaction(alice))

	msg.React(alice, "", ReactionLike)
	assert.True(t, msg.RemoveReaction(alice))
	assert.Equal(t, 0, msg.LikeCount())
	assert.False(t, msg.RemoveReaction(alice))
}

func TestEditAndModerate(t *testing.T) {
	msg := &ChatMessage{ID: uuid.New(), Message: "gm"}

	msg.Edit("gm everyone")
	assert.Equal(t, "gm everyone", msg.Message)
	assert.True(t, msg.IsEdited)

	mod := uuid.New()
	at := time.Now()
	msg.Moderate("spam", mod, at)
	assert.True(t, msg.IsModerated)
	assert.Equal(t, "spam", msg.ModerationReason)
	require.NotNil(t, msg.ModeratedBy)
	assert.Equal(t, mod, *msg.ModeratedBy)
	require.NotNil(t, msg.ModeratedAt)
}
