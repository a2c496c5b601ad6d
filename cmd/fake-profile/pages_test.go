package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"acrate-badge/badge/domain"
	"acrate-badge/badge/infra"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// As páginas falsas precisam continuar legíveis pelo extrator real.
func TestFakePages_ReadableByExtractor(t *testing.T) {
	logger, hook := test.NewNullLogger()
	srv := httptest.NewServer(newRouter(logger))
	defer srv.Close()

	fetcher := infra.NewProfileFetcher(infra.WithBaseURL(srv.URL + "/users/"))
	extractor := infra.NewRatingExtractor()

	fetch := func(raw string) (*domain.Rating, error) {
		h, err := domain.ParseHandle(raw)
		require.NoError(t, err)
		doc, err := fetcher.Fetch(context.Background(), h, domain.Algorithm)
		if err != nil {
			return nil, err
		}
		return extractor.Extract(doc)
	}

	r, err := fetch("emanon001")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.EqualValues(t, 1850, *r)

	r, err = fetch("r2400_tourist")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.EqualValues(t, 2400, *r)

	r, err = fetch("unrated_bob")
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = fetch("drift_alice")
	var ee *domain.ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, domain.RateNotFound, ee.Kind)

	_, err = fetch("missing_carol")
	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)

	assert.Len(t, hook.AllEntries(), 5)
}

func TestColorClass(t *testing.T) {
	assert.Equal(t, "gray", colorClass(0))
	assert.Equal(t, "blue", colorClass(1850))
	assert.Equal(t, "red", colorClass(3200))
}
