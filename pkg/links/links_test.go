package links

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkillDoAI/skilldo/pkg/skill"
)

func skillWithReferences(name, body string) *skill.Skill {
	return &skill.Skill{
		Metadata: skill.Metadata{Name: name},
		Body:     body,
		Sections: []skill.Section{{Title: "References"}},
	}
}

func TestReferenceURLs(t *testing.T) {
	body := `# aiohttp

## Core Patterns

See https://not-a-reference.example.com inline.

## References

- [docs](https://docs.aiohttp.org)
- https://github.com/aio-libs/aiohttp.
- https://docs.aiohttp.org

## API Reference

https://also-not-counted.example.com
`
	s := skillWithReferences("aiohttp", body)
	s.Sections = []skill.Section{
		{Title: "Core Patterns"},
		{Title: "References"},
		{Title: "API Reference"},
	}

	urls := ReferenceURLs(s)
	assert.Equal(t, []string{
		"https://docs.aiohttp.org",
		"https://github.com/aio-libs/aiohttp",
	}, urls)
}

func TestReferenceURLsNoSection(t *testing.T) {
	s := &skill.Skill{
		Metadata: skill.Metadata{Name: "scipy"},
		Body:     "# scipy\n\nhttps://scipy.org\n",
	}
	assert.Nil(t, ReferenceURLs(s))
}

func TestCheck(t *testing.T) {
	var headCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/head-refused":
			if r.Method == http.MethodHead {
				headCount++
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	body := `## References

- ` + server.URL + `/ok
- ` + server.URL + `/head-refused
- ` + server.URL + `/missing
`
	s := skillWithReferences("requests", body)

	checker := NewChecker(WithRetry(1, time.Millisecond))
	results := checker.Check(context.Background(), map[string]*skill.Skill{"requests": s})
	require.Len(t, results, 3)

	byURL := map[string]Result{}
	for _, r := range results {
		byURL[r.URL] = r
	}

	assert.True(t, byURL[server.URL+"/ok"].OK)

	// HEAD rejected with 405 falls back to GET.
	assert.True(t, byURL[server.URL+"/head-refused"].OK)
	assert.Equal(t, 1, headCount)

	missing := byURL[server.URL+"/missing"]
	assert.False(t, missing.OK)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Contains(t, missing.Error, "404")
}

func TestCheckRetries(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := skillWithReferences("flask", "## References\n\n- "+server.URL+"/docs\n")

	checker := NewChecker(WithRetry(3, time.Millisecond))
	results := checker.Check(context.Background(), map[string]*skill.Skill{"flask": s})
	require.Len(t, results, 1)
	assert.True(t, results[0].OK)
	assert.Equal(t, 3, attempts)
}

func TestCheckDomainFilter(t *testing.T) {
	s := skillWithReferences("torch", "## References\n\n- https://pytorch.org/docs\n")

	checker := NewChecker(
		WithDomainFilter(NewDomainFilter([]string{"docs.python.org"})),
		WithRetry(1, time.Millisecond),
	)
	results := checker.Check(context.Background(), map[string]*skill.Skill{"torch": s})
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.False(t, results[0].OK)
}

func TestDomainFilter(t *testing.T) {
	t.Run("empty filter allows all", func(t *testing.T) {
		df := NewDomainFilter(nil)
		assert.True(t, df.IsAllowed("https://example.com"))
	})

	t.Run("exact match", func(t *testing.T) {
		df := NewDomainFilter([]string{"docs.aiohttp.org"})
		assert.True(t, df.IsAllowed("https://docs.aiohttp.org/en/stable/"))
		assert.False(t, df.IsAllowed("https://example.com"))
	})

	t.Run("glob match", func(t *testing.T) {
		df := NewDomainFilter([]string{"*.readthedocs.io"})
		assert.True(t, df.IsAllowed("https://celery.readthedocs.io/en/latest/"))
		assert.False(t, df.IsAllowed("https://readthedocs.org"))
	})

	t.Run("localhost always allowed", func(t *testing.T) {
		df := NewDomainFilter([]string{"docs.python.org"})
		assert.True(t, df.IsAllowed("http://127.0.0.1:8080/healthz"))
		assert.True(t, df.IsAllowed("http://localhost:3000/"))
	})

	t.Run("url-shaped patterns are normalized", func(t *testing.T) {
		df := NewDomainFilter([]string{"https://docs.python.org/3/"})
		assert.True(t, df.IsAllowed("https://docs.python.org/3/library/asyncio.html"))
	})
}
