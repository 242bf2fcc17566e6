package backend

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type prefixStorage string

func (p prefixStorage) Upload(context.Context, string, string, io.Reader, int64) error { return nil }
func (p prefixStorage) Remove(context.Context, ...string) error                       { return nil }
func (p prefixStorage) PublicURL(name string) string                                   { return string(p) + "/" + name }

func TestObjectName(t *testing.T) {
	s := prefixStorage("https://cdn.example.org/media")

	name, ok := ObjectName(s, "https://cdn.example.org/media/1718000000000.jpg")
	assert.True(t, ok)
	assert.Equal(t, "1718000000000.jpg", name)

	name, ok = ObjectName(s, "https://cdn.example.org/media/1718000000000.pdf?v=2")
	assert.True(t, ok)
	assert.Equal(t, "1718000000000.pdf", name)

	for _, u := range []string{
		"https://other.example.org/media/a.jpg",
		"https://cdn.example.org/mediax/a.jpg",
		"https://cdn.example.org/media/",
		"https://cdn.example.org/media/../secret",
		"/public/gallery/eventi/festa.jpg",
	} {
		_, ok := ObjectName(s, u)
		assert.False(t, ok, u)
	}
}

func TestObjectNameRelativeBase(t *testing.T) {
	s := prefixStorage("/uploads")
	name, ok := ObjectName(s, "/uploads/42.png")
	assert.True(t, ok)
	assert.Equal(t, "42.png", name)

	_, ok = ObjectName(s, "/public/42.png")
	assert.False(t, ok)
}
