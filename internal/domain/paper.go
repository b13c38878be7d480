package domain

// embeddingSeparator joins title and abstract into the text a paper vector is
// computed from. Loader and server must agree on it, otherwise reindexing
// produces vectors that are not comparable with the stored corpus.
const embeddingSeparator = " [SEP] "

// Paper is a single academic paper in the corpus. The embedding vector is
// derived data and lives in the corpus store, not on the struct.
type Paper struct {
	ID       string
	Title    string
	Abstract string
	URL      string
}

// EmbeddingText returns the text the paper's vector is computed from.
func (p Paper) EmbeddingText() string {
	return p.Title + embeddingSeparator + p.Abstract
}

// ScoredPaper pairs a paper with its similarity to a query or profile vector.
// Similarity is cosine-based, in [0,1], and is ranking-only data.
type ScoredPaper struct {
	Paper
	Similarity float64
}

// InteractionKind classifies a user action on a paper.
type InteractionKind string

const (
	// InteractionStar marks a paper the user starred.
	InteractionStar InteractionKind = "star"
	// InteractionView marks a paper the user opened.
	InteractionView InteractionKind = "view"
)

// Valid reports whether the kind is one of the known interaction kinds.
func (k InteractionKind) Valid() bool {
	return k == InteractionStar || k == InteractionView
}

// Interaction records one user action on a paper. The log is append-only and
// duplicates are tolerated, not deduplicated.
type Interaction struct {
	ID      string
	UserID  string
	PaperID string
	Kind    InteractionKind
}
