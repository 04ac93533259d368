package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePresentation(t *testing.T) {
	doc, ok := ParsePresentation(`{"slides": [{"title": "Intro"}]}`)
	require.True(t, ok)
	assert.Len(t, doc["slides"], 1)

	_, ok = ParsePresentation(`{"slides": "not a list"}`)
	assert.False(t, ok)

	_, ok = ParsePresentation(`{"title": "X"}`)
	assert.False(t, ok)

	_, ok = ParsePresentation("plain prose")
	assert.False(t, ok)
}

func TestStampFormatPreservesExistingMarker(t *testing.T) {
	doc := map[string]interface{}{"slides": []interface{}{}}
	StampFormat(doc)
	assert.Equal(t, PresentationFormat, doc["_format"])

	doc["_format"] = "custom/v2"
	StampFormat(doc)
	assert.Equal(t, "custom/v2", doc["_format"])
}

func TestResourceText(t *testing.T) {
	text := "plain body"
	r := &Resource{ContentText: &text}
	assert.Equal(t, "plain body", r.Text())

	r = &Resource{ContentJSON: []byte(`{"slides":[]}`)}
	assert.Equal(t, "{\n  \"slides\": []\n}", r.Text())

	r = &Resource{}
	assert.Equal(t, "", r.Text())
}
