package microservices

const (
	GET          = "GET"
	POST         = "POST"
	PUT          = "PUT"
	PATCH        = "PATCH"
	DELETE       = "DELETE"
	OPTIONS      = "OPTIONS"
	OPTIONS_DESC = "Get available methods"
	CONTENT_TYPE = "Content-Type"
	JSON_TYPE    = "application/json"
	HTML_TYPE    = "text/html"
)
