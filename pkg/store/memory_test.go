package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(map[string]string{
		"./css/site.css": "body{}",
	})

	content, err := m.ReadFile(ctx, "css/site.css")
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(content))

	// returned slices are copies
	content[0] = 'X'
	assert.Equal(t, "body{}", m.Content("css/site.css"))

	_, err = m.ReadFile(ctx, "css/missing.css")
	assert.True(t, errors.Is(err, ErrNotFound))

	exists, err := m.FileExists(ctx, "css/site.css")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, m.WriteFile(ctx, "css/site.css", []byte("body{margin:0}")))
	assert.Equal(t, "body{margin:0}", m.Content("css/site.css"))
	assert.Equal(t, []string{"css/site.css"}, m.Writes())
}

func TestMemory_Failures(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(map[string]string{"a.js": "x"})
	m.WriteErrors = map[string]error{"a.js": errors.New("disk full")}

	err := m.WriteFile(ctx, "a.js", []byte("y"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "x", m.Content("a.js"))
	assert.Empty(t, m.Writes())

	m.Unavailable = true
	_, err = m.ReadFile(ctx, "a.js")
	assert.True(t, errors.Is(err, ErrUnavailable))
	_, err = m.FileExists(ctx, "a.js")
	assert.True(t, errors.Is(err, ErrUnavailable))
}
