package gateway

// RefinementError wraps any failure of the refine call: transport errors,
// unparseable bodies and schema-violating responses. The caller surfaces
// it to the user and does not retry.
type RefinementError struct {
	Err error
}

func (e *RefinementError) Error() string {
	return "refinement failed: " + e.Err.Error()
}

func (e *RefinementError) Unwrap() error { return e.Err }

// ImageGenerationError wraps any failure of the anchor-image call. The
// caller logs it and degrades to the placeholder visualizer; it never
// blocks the focus flow.
type ImageGenerationError struct {
	Err error
}

func (e *ImageGenerationError) Error() string {
	return "anchor image generation failed: " + e.Err.Error()
}

func (e *ImageGenerationError) Unwrap() error { return e.Err }
