package agent

// Metadata is an opaque, caller-supplied bag of values attached to a Thread
// or Run. Record constructors default it to a non-nil empty map. Every
// record type tags the field omitempty, so an empty bag is left out of the
// encoded JSON rather than written as "{}" or "null".
type Metadata map[string]any

// CloneMetadata returns a shallow copy safe for isolation across component
// boundaries. Values themselves are treated as immutable once stored, the
// same discipline the teacher applies to tool-call arguments.
func CloneMetadata(in Metadata) Metadata {
	out := make(Metadata, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func normalizeMetadata(in Metadata) Metadata {
	if in == nil {
		return Metadata{}
	}
	return CloneMetadata(in)
}
