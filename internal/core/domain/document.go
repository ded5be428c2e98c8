package domain

// SourceDocument is a normalised text document produced by a loader.
// It exists only for the duration of an ingestion run; the SourceID is
// the stable citation key carried through to retrieval results.
type SourceDocument struct {
	// SourceID uniquely identifies the input artifact (file base name,
	// relative path, or URL depending on the corpus origin).
	SourceID string

	// Title is the human-readable title, usually derived from the file name.
	Title string

	// Text is the full extracted text after whitespace normalisation.
	Text string
}

// Chunk is an overlapping window of a SourceDocument, the unit stored in
// the vector index. Chunks are immutable once written.
type Chunk struct {
	// ID is a fresh unique identifier assigned at chunking time.
	ID string

	// SourceID links back to the originating SourceDocument.
	SourceID string

	// Title is carried from the source document as retrievable metadata.
	Title string

	// Text is the chunk content.
	Text string

	// Position is the ordinal position within the source document.
	Position int
}

// RetrievedChunk is a similarity-search hit with its provenance.
type RetrievedChunk struct {
	// SourceID is the citation key of the matched chunk.
	SourceID string

	// Title of the source document.
	Title string

	// Text is the matched chunk content.
	Text string

	// Score is the similarity score, higher is more relevant.
	// Tie order between equal scores is arbitrary.
	Score float64
}

// CorpusRecord is the canonical ingestion input record. The dataset file
// formats (object map, JSON array, NDJSON) are all normalised to this
// shape immediately after parsing.
type CorpusRecord struct {
	// Source is the citation key (url, source path, or file name).
	Source string

	// Title is the display title; defaults to the base name of Source.
	Title string

	// RawText is the document text to chunk and embed.
	RawText string
}
