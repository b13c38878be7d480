// Package index provides exact nearest-neighbor search over paper vectors.
package index

// Hit is a single nearest-neighbor match: a paper id and its cosine
// similarity score in [0,1].
type Hit struct {
	ID    string
	Score float64
}
