package domain

// KeyPrefix namespaces all keys the service writes to the database.
const KeyPrefix = "resurch:"

// VectorConfig pins the embedding model identity for a corpus. Ingest and
// query must run with an identical configuration; the server asserts this
// against the stored corpus metadata at startup.
type VectorConfig struct {
	Model          string
	Dimensions     int
	DistanceMetric string
}

// DefaultVectorConfig returns the default configuration tuned for
// all-MiniLM-L6-v2 served over an OpenAI-compatible endpoint.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "sentence-transformers/all-MiniLM-L6-v2",
		Dimensions:     384,
		DistanceMetric: "cosine",
	}
}
