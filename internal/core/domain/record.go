package domain

// EntityKind distinguishes described code entities.
type EntityKind string

// Recognised entity kinds.
const (
	EntityClass    EntityKind = "class"
	EntityFunction EntityKind = "function"
)

// DocumentationRecord is the structured analysis output for one source
// file. It is produced once per stale file by the analyzer and fans out
// to the Markdown, spec and viewer generators.
type DocumentationRecord struct {
	// Title is a short, specific title for the module,
	// e.g. "User Management API".
	Title string

	// Summary is a brief description of the module's purpose.
	Summary string

	// Entities are the described classes and functions, in source order.
	Entities []Entity

	// Endpoints are the detected HTTP endpoints, in source order.
	// Empty when the module exposes no API.
	Endpoints []Endpoint
}

// Entity describes one class or function.
type Entity struct {
	Name        string
	Kind        EntityKind
	Description string
	Params      []Param
	Returns     string
}

// Param describes a named, typed parameter or field.
type Param struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// Endpoint describes one detected HTTP endpoint. The path template plus
// method form the composite key, unique within a DocumentationRecord.
type Endpoint struct {
	// Path is the path template, e.g. "/users/{id}".
	Path string

	// Method is the HTTP method, upper-case, e.g. "GET".
	Method string

	// Summary is a one-line description of the operation.
	Summary string

	// Request describes the JSON request body fields, if any.
	Request []Param

	// Responses describes the possible responses by status code.
	Responses []Response

	// AuthSignal is the raw, free-form authentication hint from the
	// analyzer (e.g. "requires bearer token"). Empty when none was
	// detected. The security classifier normalises it.
	AuthSignal string

	// RequiresAuth is set by the security classifier.
	RequiresAuth bool

	// AuthScheme is the normalised scheme name (e.g. "bearerAuth"),
	// set by the security classifier when RequiresAuth is true.
	AuthScheme string
}

// Response describes one response of an endpoint.
type Response struct {
	// Status is the HTTP status code, e.g. 200.
	Status int

	// Description is a short human-readable description.
	Description string

	// Fields describes the JSON response body fields, if any.
	Fields []Param
}
