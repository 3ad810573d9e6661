package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/catalog"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// Every template must render cleanly with exactly the data bag its
// handler supplies. A template reaching for a variable no handler sets
// was a recurring defect in this application's history; this test is the
// tripwire for it.
func TestTemplatesRenderWithPipelineData(t *testing.T) {
	r, err := NewRenderer("../../web/templates/*.html")
	require.NoError(t, err)

	base := func(extra map[string]any) map[string]any {
		d := map[string]any{
			"SuccessMsgs": []string{"it worked"},
			"ErrorMsgs":   []string{"it did not"},
			"UserID":      uint64(1),
		}
		for k, v := range extra {
			d[k] = v
		}
		return d
	}
	movie := &repository.Movie{ID: 1, OwnerID: 1, Name: "Dune", Description: "Spice", Year: 2021, Genres: "Sci-Fi", Rating: 8}

	cases := []struct {
		template string
		data     map[string]any
		want     []string
	}{
		{"index.html", base(map[string]any{"Movies": []*repository.Movie{movie}}),
			[]string{"Dune", "it worked", "it did not"}},
		{"index.html", base(map[string]any{"Movies": []*repository.Movie{}}),
			[]string{"No movies yet."}},
		{"movie-detail.html", base(map[string]any{"Movie": movie}),
			[]string{"Dune", "Spice", "/delete/1"}},
		{"register.html", base(map[string]any{"Errors": []string{"oops"}, "Username": "alice"}),
			[]string{`value="alice"`, "oops"}},
		{"login.html", base(nil),
			[]string{`action="/login"`}},
		{"add-movie.html", base(map[string]any{"Errors": []string{}, "Draft": catalog.MovieDraft{Name: "Dune"}}),
			[]string{`value="Dune"`}},
		{"edit-movie.html", base(map[string]any{"Errors": []string{}, "MovieID": uint64(3), "Draft": catalog.MovieDraft{Year: "2021"}}),
			[]string{`action="/edit/3"`, `value="2021"`}},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, tc.template, tc.data, nil), tc.template)
		for _, want := range tc.want {
			assert.Contains(t, buf.String(), want, tc.template)
		}
	}
}

func TestNavReflectsSession(t *testing.T) {
	r, err := NewRenderer("../../web/templates/*.html")
	require.NoError(t, err)

	render := func(userID uint64) string {
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, "login.html", map[string]any{
			"SuccessMsgs": []string{},
			"ErrorMsgs":   []string{},
			"UserID":      userID,
		}, nil))
		return buf.String()
	}

	anon := render(0)
	assert.Contains(t, anon, `href="/register"`)
	assert.NotContains(t, anon, `href="/logout"`)

	authed := render(42)
	assert.Contains(t, authed, `href="/logout"`)
	assert.Contains(t, authed, `href="/add"`)
}
