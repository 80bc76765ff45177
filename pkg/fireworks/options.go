package fireworks

type WorkflowOption func(wf *Workflow)

// WithMetadata attaches one free-form key/value pair to the workflow.
// Callers forward whatever their scheduler wants to see.
func WithMetadata(key string, value any) WorkflowOption {
	return func(wf *Workflow) {
		wf.metadata[key] = value
	}
}

// WithMetadataMap merges a whole map of metadata into the workflow.
func WithMetadataMap(meta map[string]any) WorkflowOption {
	return func(wf *Workflow) {
		for k, v := range meta {
			wf.metadata[k] = v
		}
	}
}
