package domain

// IngestFailure records one document that could not be ingested.
type IngestFailure struct {
	// SourceID of the failed document.
	SourceID string

	// Reason is the error message.
	Reason string
}

// IngestReport summarises an ingestion run. A failed document never
// aborts the batch; it is reported here instead.
type IngestReport struct {
	// Attempted is the number of non-empty documents processed.
	Attempted int

	// Ingested is the number of documents fully written to the index.
	Ingested int

	// VectorsWritten is the total number of chunk vectors stored.
	VectorsWritten int

	// Skipped is the number of documents skipped for empty text.
	Skipped int

	// Failures lists the documents that could not be ingested.
	Failures []IngestFailure
}
