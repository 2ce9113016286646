package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentUnmarshalTolerant(t *testing.T) {
	assert := assert.New(t)

	payload := `[
		{"user":"a","text":"hi","createdAt":"2024-01-01T10:00:00Z"},
		{"user":"b","text":"ms","createdAt":1700000000000},
		{"user":"c","text":"empty","createdAt":""},
		{"user":"d","text":"spaced","createdAt":"2024-01-01 10:00:00"},
		{"user":"e","createdAt":{"nested":true}},
		{"user":42,"text":null},
		"just a string",
		null
	]`
	var comments []Comment
	require.NoError(t, json.Unmarshal([]byte(payload), &comments))
	require.Len(t, comments, 8)

	rfc := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NotNil(t, comments[0].CreatedAt)
	assert.Equal(rfc, *comments[0].CreatedAt)

	require.NotNil(t, comments[1].CreatedAt)
	assert.Equal(time.UnixMilli(1700000000000).UTC(), *comments[1].CreatedAt)

	assert.Nil(comments[2].CreatedAt)
	assert.Equal("c", comments[2].User)

	require.NotNil(t, comments[3].CreatedAt)
	assert.Equal(rfc, *comments[3].CreatedAt)

	assert.Nil(comments[4].CreatedAt)
	assert.Equal("e", comments[4].User)
	assert.Empty(comments[5].User)
	assert.Equal(Comment{}, comments[6])
	assert.Equal(Comment{}, comments[7])
}
