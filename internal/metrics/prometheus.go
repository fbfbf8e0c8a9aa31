// Package metrics registers Prometheus instrumentation for the pipeline and
// serves the scrape endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ingest metrics
	ChunksIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_chunks_ingested_total",
		Help: "Total number of audio chunks registered from the inbox",
	})
	IngestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_ingest_errors_total",
		Help: "Total number of chunk files that failed ingest",
	})

	// Sequencing metrics
	SequencesBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_sequences_built_total",
		Help: "Total number of recording sequences reconstructed",
	})
	SequencesIncomplete = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_sequences_incomplete_total",
		Help: "Total number of sequences missing their start or end bracket",
	})
	SequenceChunks = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meetmerge_sequence_chunks",
		Help:    "Number of chunks per reconstructed sequence",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})

	// Merge metrics
	MergesSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_merges_succeeded_total",
		Help: "Total number of sequences merged into artifacts",
	})
	MergesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_merges_failed_total",
		Help: "Total number of sequence merges that failed",
	})
	MergeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meetmerge_merge_duration_seconds",
		Help:    "Wall-clock duration of sequence merges",
		Buckets: prometheus.DefBuckets,
	})

	// Transcription metrics
	TranscriptionRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_transcription_requests_total",
		Help: "Total number of transcription API requests",
	})
	TranscriptionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_transcription_failures_total",
		Help: "Total number of failed transcription requests",
	})
	TranscriptionRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_transcription_retries_total",
		Help: "Total number of transcription request retries",
	})
	TranscriptionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meetmerge_transcription_duration_seconds",
		Help:    "Wall-clock duration of transcription requests",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
	SegmentsProduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetmerge_transcript_segments_total",
		Help: "Total number of transcript segments produced",
	})
)

// Serve exposes /metrics on the given address. It blocks, so callers run it
// in a goroutine.
func Serve(address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
