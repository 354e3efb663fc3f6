package model

// IngestEnvelope carries one raw snapshot line with source metadata.
// It is the transport contract between feed plugins and the snapshot decoder.
type IngestEnvelope struct {
	Source string
	Line   string
}
