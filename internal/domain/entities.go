package domain

// Chunk is a bounded, source-tagged span of document text, the unit of
// retrieval. Immutable once created. The position of a chunk in the corpus
// slice is the only link to its embedding row: embedding[i] belongs to
// corpus[i], and that correspondence must survive persistence round-trips.
type Chunk struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	StartPos int    `json:"start_pos"`
}

// RetrievalResult is a hydrated search hit. Score is cosine similarity in
// [-1, 1], higher is better; it is a similarity, not a distance.
type RetrievalResult struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// Answer is the structured result of a grounded generation attempt.
// Grounded records that context was supplied to the model, not that the
// model actually complied with it.
type Answer struct {
	Answer      string            `json:"answer"`
	ContextUsed []RetrievalResult `json:"context_used"`
	Grounded    bool              `json:"grounded"`
}

// QueryResponse is the shape returned to API callers.
type QueryResponse struct {
	Query    string            `json:"query"`
	Answer   string            `json:"answer"`
	Context  []RetrievalResult `json:"context"`
	Grounded bool              `json:"grounded"`
}

// Stats describes the served corpus.
type Stats struct {
	TotalChunks int    `json:"total_chunks"`
	Dimension   int    `json:"embedding_dimension"`
	Model       string `json:"model"`
}
