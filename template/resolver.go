// Package template expands {{name}} placeholders in prompt text with the
// content of the output format holding that exact name.
package template

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/slidecreator/core/model"
)

const cacheTTL = 30 * time.Second

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// FormatLister supplies the full output-format set for the cache refresh.
type FormatLister interface {
	ListOutputFormats() ([]*model.OutputFormat, error)
}

// Resolver substitutes output-format references into prompt text. The
// name-to-content mapping is cached for cacheTTL and invalidated whenever an
// output format is written. Concurrent refreshes are not deduplicated; the
// refresh is a cheap bulk read.
type Resolver struct {
	formats FormatLister

	mu        sync.Mutex
	cache     map[string]string
	fetchedAt time.Time
}

func NewResolver(formats FormatLister) *Resolver {
	return &Resolver{formats: formats}
}

// Invalidate drops the cached mapping. Called on any output-format write.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}

func (r *Resolver) load() (map[string]string, error) {
	r.mu.Lock()
	if r.cache != nil && time.Since(r.fetchedAt) < cacheTTL {
		cached := r.cache
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	formats, err := r.formats.ListOutputFormats()
	if err != nil {
		return nil, err
	}

	cache := make(map[string]string, len(formats))
	for _, format := range formats {
		cache[format.Name] = format.Content
	}

	r.mu.Lock()
	r.cache = cache
	r.fetchedAt = time.Now()
	r.mu.Unlock()

	return cache, nil
}

// Substitute replaces every {{name}} occurrence whose name matches an output
// format exactly. Unmatched placeholders are left untouched so pipelines can
// be authored before every referenced format exists. Text without "{{" is
// returned as is without touching the cache.
func (r *Resolver) Substitute(text string) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	formats, err := r.load()
	if err != nil {
		return "", err
	}

	result := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-2]
		if content, ok := formats[name]; ok {
			return content
		}
		return match
	})

	return result, nil
}
