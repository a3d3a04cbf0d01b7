package search

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfluencerIndex_IndexAll(t *testing.T) {
	fake, client := newFakeES(t, func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)
	})
	idx := NewInfluencerIndex(client, "influencers")

	infs := []models.Influencer{
		{ID: "inf-1", Niche: "Beauty", PricePerPost: 100},
		{ID: "inf-2", Niche: "Food", PricePerPost: 200},
		{ID: "inf-3", Niche: "Tech", PricePerPost: 300},
	}
	n, err := idx.IndexAll(context.Background(), infs, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.requests, 3)
}

func TestInfluencerIndex_IndexAll_PartialFailure(t *testing.T) {
	_, client := newFakeES(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		if strings.HasSuffix(r.URL.Path, "/inf-2") {
			w.WriteHeader(http.StatusServiceUnavailable)
			io.WriteString(w, `{"error":"unavailable"}`)
			return
		}
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"result":"updated"}`)
	})
	idx := NewInfluencerIndex(client, "influencers")

	infs := []models.Influencer{{ID: "inf-1", Niche: "Beauty"}, {ID: "inf-2", Niche: "Beauty"}}
	n, err := idx.IndexAll(context.Background(), infs, 1)
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))
	assert.Equal(t, 1, n)
}
