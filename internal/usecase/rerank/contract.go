package rerank

// VectorLookup provides read-only access to precomputed document vectors.
type VectorLookup interface {
	// Vector returns the stored embedding for a document id, or false when
	// the document has no vector.
	Vector(id string) ([]float32, bool)
}
