package app

import (
	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/ui/sections"
)

// bodyKey is everything a section body depends on.
type bodyKey struct {
	draft   model.Draft
	focus   int
	opacity float64
}

type cachedBody struct {
	key bodyKey
	out string
}

// bodyCache keeps the last rendered body of each section and skips the
// render when nothing it depends on changed. It is shared by copies of
// Model, which is fine since entries are pure functions of their key.
type bodyCache struct {
	entries map[sections.Kind]cachedBody
	renders int
}

func newBodyCache() *bodyCache {
	return &bodyCache{entries: make(map[sections.Kind]cachedBody)}
}

func (c *bodyCache) render(k sections.Kind, d model.Draft, focus int, opacity float64) string {
	key := bodyKey{draft: d, focus: focus, opacity: opacity}
	if e, ok := c.entries[k]; ok && e.key == key {
		return e.out
	}

	styles := sections.DefaultStyles()
	if opacity < 1 {
		styles = sections.FadedStyles(opacity)
	}
	out := sections.Render(k, d, focus, styles)
	c.entries[k] = cachedBody{key: key, out: out}
	c.renders++
	return out
}
