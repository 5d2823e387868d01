// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

type labelledErr struct{}

func (labelledErr) Error() string       { return "boom" }
func (labelledErr) MetricLabel() string { return "tmdb_api" }

func TestClassifySyncError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"classifier", labelledErr{}, "tmdb_api"},
		{"wrapped classifier", fmt.Errorf("category popular: %w", labelledErr{}), "tmdb_api"},
		{"canceled", context.Canceled, "canceled"},
		{"deadline", fmt.Errorf("page 3: %w", context.DeadlineExceeded), "canceled"},
		{"store", errors.New("store: list categories: conn closed"), "database"},
		{"tmdb text", errors.New("tmdb returned garbage"), "tmdb_api"},
		{"other", errors.New("something else"), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySyncError(tt.err); got != tt.want {
				t.Errorf("classifySyncError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordSyncOperation(t *testing.T) {
	before := testutil.ToFloat64(SyncErrors.WithLabelValues("other"))
	RecordSyncOperation(2*time.Second, errors.New("weird"))
	if got := testutil.ToFloat64(SyncErrors.WithLabelValues("other")); got != before+1 {
		t.Errorf("sync_errors_total{other} = %v, want %v", got, before+1)
	}

	RecordSyncOperation(time.Second, nil)
	if testutil.ToFloat64(SyncLastSuccess) == 0 {
		t.Error("expected last success timestamp to be set")
	}
}

func TestRecordCategorySync(t *testing.T) {
	cat := "test_category_sync"
	RecordCategorySync(cat, time.Second, 5, 3, 1, 2)
	RecordCategorySync(cat, time.Second, 1, 0, 0, 0)

	checks := map[string]float64{"inserted": 6, "existing": 3, "failed": 1, "evicted": 2}
	for outcome, want := range checks {
		if got := testutil.ToFloat64(SyncMovies.WithLabelValues(cat, outcome)); got != want {
			t.Errorf("sync_movies_total{%s} = %v, want %v", outcome, got, want)
		}
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/movies", "200"))
	RecordAPIRequest("GET", "/test/movies", "200", 15*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/movies", "200")); got != before+1 {
		t.Errorf("api_requests_total = %v, want %v", got, before+1)
	}
}

func TestRecordUpstreamRequest(t *testing.T) {
	RecordUpstreamRequest("test_svc", "movie_detail", 404, 10*time.Millisecond)
	if got := testutil.ToFloat64(UpstreamRequests.WithLabelValues("test_svc", "movie_detail", "404")); got != 1 {
		t.Errorf("upstream_requests_total = %v, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	RecordCacheLookup("test_cache", true)
	RecordCacheLookup("test_cache", false)
	RecordCacheLookup("test_cache", false)
	if got := testutil.ToFloat64(CacheHits.WithLabelValues("test_cache")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("test_cache")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}

func TestRecordEventPublish(t *testing.T) {
	RecordEventPublish("test.topic", nil)
	RecordEventPublish("test.topic", errors.New("closed"))
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("test.topic", "success")); got != 1 {
		t.Errorf("success = %v", got)
	}
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("test.topic", "error")); got != 1 {
		t.Errorf("error = %v", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+1 {
		t.Errorf("api_active_requests = %v, want %v", got, start+1)
	}
	TrackActiveRequest(false)
}

// histogramCount reads the sample count of a histogram.
func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordReview(t *testing.T) {
	before := histogramCount(t, ReviewDuration)
	generated := testutil.ToFloat64(ReviewRequests.WithLabelValues("generated"))

	RecordReview("generated", 800*time.Millisecond)
	RecordReview("cached", time.Millisecond)
	RecordReview("error", time.Second)

	if got := histogramCount(t, ReviewDuration); got != before+1 {
		t.Errorf("review duration samples = %d, want %d (only generated reviews are timed)", got, before+1)
	}
	if got := testutil.ToFloat64(ReviewRequests.WithLabelValues("generated")); got != generated+1 {
		t.Errorf("review_requests_total{generated} = %v", got)
	}
}
