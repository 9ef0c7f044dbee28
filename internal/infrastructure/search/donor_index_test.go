package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
)

type recorded struct {
	method, path, body string
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*DonorIndex, *[]recorded) {
	t.Helper()
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewDonorIndex(es, "donors"), &reqs
}

func TestBuildQuery(t *testing.T) {
	q := buildQuery(entity.DonorSearchQuery{City: " Bandung ", BloodGroup: entity.BloodGroupOPos, Status: entity.DonorStatusAvailable, Size: 500})
	b, err := json.Marshal(q)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `{"term":{"blood_group":"O+"}}`)
	assert.Contains(t, s, `{"term":{"status":"available"}}`)
	assert.Contains(t, s, `{"match":{"city":"Bandung"}}`)
	assert.Contains(t, s, `"size":100`)

	empty := buildQuery(entity.DonorSearchQuery{})
	assert.Equal(t, defaultSize, empty["size"])
}

func TestDonorIndex_Index(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	d := &entity.DonorView{Donor: entity.Donor{ID: 7, UserID: 2, City: "Bandung", BloodGroup: entity.BloodGroupAPos, Status: entity.DonorStatusAvailable}, UserName: "Ana"}
	require.NoError(t, idx.Index(context.Background(), d))
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPut, (*reqs)[0].method)
	assert.Equal(t, "/donors/_doc/7", (*reqs)[0].path)
	assert.Contains(t, (*reqs)[0].body, `"user_name":"Ana"`)
}

func TestDonorIndex_RemoveMissingIsOK(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	assert.NoError(t, idx.Remove(context.Background(), 7))
}

func TestDonorIndex_Search(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"7","_source":{"id":7,"user_id":2,"user_name":"Ana","city":"Bandung","age":30,"blood_group":"O+","status":"available"}}]}}`))
	})

	got, err := idx.Search(context.Background(), entity.DonorSearchQuery{BloodGroup: entity.BloodGroupOPos})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, "Ana", got[0].UserName)
	assert.Equal(t, entity.BloodGroupOPos, got[0].BloodGroup)
	assert.True(t, strings.HasSuffix((*reqs)[0].path, "/donors/_search"))
}

func TestDonorIndex_SearchError(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	_, err := idx.Search(context.Background(), entity.DonorSearchQuery{})
	assert.Error(t, err)
}
