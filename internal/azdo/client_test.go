package azdo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeBoard(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/acme/shop/_apis/wit/wiql", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Empty(t, user)
		if pass != "good-pat" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var body struct {
			Query string `json:"query"`
		}
		require.NoError(t, jsonDecode(r, &body))

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(body.Query, "'User Story'") {
			assert.Contains(t, body.Query, `[System.IterationPath] = 'shop\2024\Q1\2024_S07'`)
			assert.Contains(t, body.Query, `[System.AreaPath] = 'shop\Team A'`)
			fmt.Fprint(w, `{"workItems":[{"id":100},{"id":101}]}`)
			return
		}
		assert.Contains(t, body.Query, "[System.Parent] IN (100,101)")
		fmt.Fprint(w, `{"workItems":[{"id":1},{"id":2}]}`)
	})

	mux.HandleFunc("/acme/shop/_apis/wit/workitems", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		ids := r.URL.Query().Get("ids")
		if ids == "100,101" {
			fmt.Fprint(w, `{"value":[
				{"id":100,"fields":{"System.Title":"Checkout","System.State":"New","System.AreaPath":"shop\\Team A"}},
				{"id":101,"fields":{"System.Title":"Catalog","System.State":"Active","System.AreaPath":"shop\\Team A"}}
			]}`)
			return
		}
		require.Equal(t, "1,2", ids)
		fmt.Fprint(w, `{"value":[
			{"id":1,"fields":{
				"System.Title":"[BE] checkout API","System.State":"New","System.Parent":100,
				"Microsoft.VSTS.Scheduling.OriginalEstimate":6,
				"System.AssignedTo":{"uniqueName":"a@x"}
			}},
			{"id":2,"fields":{"System.Title":"[FE] checkout page","System.State":"Active","System.Parent":100}}
		]}`)
	})

	return httptest.NewServer(mux)
}

func jsonDecode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func TestFetchSprintItems(t *testing.T) {
	srv := fakeBoard(t)
	defer srv.Close()

	c := NewClient(Config{
		Organization: "acme", Project: "shop", Token: "good-pat", BaseURL: srv.URL,
	}, zap.NewNop())

	items, err := c.FetchSprintItems(context.Background(),
		SprintRef{Name: "2024_S07", Year: "2024", Quarter: "Q1"}, `shop\Team A`)
	require.NoError(t, err)

	require.Len(t, items.Stories, 2)
	assert.Equal(t, 100, items.Stories[0].ID)
	assert.Equal(t, "Checkout", items.Stories[0].Title)

	require.Len(t, items.Tasks, 2)
	be := items.Tasks[0]
	assert.Equal(t, "[BE] checkout API", be.Title)
	assert.Equal(t, "a@x", be.AssignedTo)
	require.NotNil(t, be.OriginalEstimate)
	assert.Equal(t, 6.0, *be.OriginalEstimate)
	require.NotNil(t, be.Parent)
	assert.Equal(t, 100, *be.Parent)

	fe := items.Tasks[1]
	assert.Empty(t, fe.AssignedTo)
	assert.Nil(t, fe.OriginalEstimate)
}

func TestFetchSprintItems_BadToken(t *testing.T) {
	srv := fakeBoard(t)
	defer srv.Close()

	c := NewClient(Config{
		Organization: "acme", Project: "shop", Token: "bad-pat", BaseURL: srv.URL,
	}, zap.NewNop())

	_, err := c.FetchSprintItems(context.Background(),
		SprintRef{Name: "2024_S07", Year: "2024", Quarter: "Q1"}, `shop\Team A`)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFetchSprintItems_EmptySprint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"workItems":[]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{
		Organization: "acme", Project: "shop", Token: "pat", BaseURL: srv.URL,
	}, zap.NewNop())

	_, err := c.FetchSprintItems(context.Background(),
		SprintRef{Name: "2024_S07", Year: "2024", Quarter: "Q1"}, `shop\Team A`)
	assert.ErrorIs(t, err, ErrNoUserStories)
}

func TestFetchSprintItems_Unreachable(t *testing.T) {
	// Closed port: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{
		Organization: "acme", Project: "shop", Token: "pat", BaseURL: url, MaxRetries: 1,
	}, zap.NewNop())

	_, err := c.FetchSprintItems(context.Background(),
		SprintRef{Name: "2024_S07", Year: "2024", Quarter: "Q1"}, `shop\Team A`)
	assert.ErrorIs(t, err, ErrUnreachable)
}
