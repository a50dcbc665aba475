package common

import "time"

const (
	// IngestBatchSize controls progress-report granularity only; records are
	// still upserted one at a time.
	IngestBatchSize = 100

	// RedisKeyIngestLock guards one ingestion run per scan date.
	RedisKeyIngestLock = "ingest:lock:%s"
	IngestLockTTL      = 30 * time.Minute

	// Evaluation file naming conventions. The primary convention is preferred,
	// the legacy one is a fallback. Dates embedded in the names are ISO, so
	// lexicographic order is chronological.
	EvaluationFilePrimary  = "daily-evaluation-%s.json"
	EvaluationFileFallback = "scan-results-%s.json"
	SummaryFilePrimary     = "daily-summary-%s.json"
	SummaryFileFallback    = "scan-summary-%s.json"
)
