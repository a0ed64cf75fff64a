package restclient

// Blob is a named binary payload for raw bodies and multipart form fields.
type Blob struct {
	// Name is the file name reported for multipart fields; may be empty.
	Name string
	// ContentType defaults to application/octet-stream when empty.
	ContentType string
	Data        []byte
}

func (b Blob) mime() string {
	if b.ContentType == "" {
		return "application/octet-stream"
	}
	return b.ContentType
}

// Descriptor describes exactly one HTTP call. Call sites build one per call;
// the executor consumes it and never mutates it.
type Descriptor struct {
	// Method is the HTTP verb, e.g. "GET".
	Method string

	// URL is a path template relative to the configured base. `{name}`
	// placeholders are substituted from Path; the literal `{api-version}`
	// token is substituted from the connection configuration.
	URL string

	// Path holds values for the URL template placeholders.
	Path map[string]any

	// Query holds query parameters. nil values are omitted, time.Time
	// serializes to ISO-8601, slices repeat the key per element, and
	// nested maps flatten to key[subkey] pairs.
	Query map[string]any

	// Headers are per-call overrides merged over the resolved header set.
	Headers map[string]string

	// Body is the request payload: a string, []byte, Blob, or any
	// JSON-marshallable value. Ignored when Form is set.
	Body any

	// Form holds multipart form fields. Strings and Blobs are appended
	// as-is, slices repeat the field per element, nil values are skipped,
	// anything else is JSON-stringified.
	Form map[string]any

	// MediaType forces the Content-Type header when set.
	MediaType string

	// ResponseHeader names a response header whose value replaces the
	// response body in the outcome.
	ResponseHeader string

	// Errors overrides the standard status-to-message table per status.
	// An entry here rejects the call even for a 2xx status.
	Errors map[int]string

	// Transform, when set, is applied to the decoded body of successful
	// responses before the request resolves.
	Transform func(body any) any
}
