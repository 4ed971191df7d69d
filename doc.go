/*

Package microservices is a thin convenience layer for building and consuming small
JSON-over-HTTP services.

1. `net/http` + `gorilla/mux` are enough to build such a service, so
the server side is just a light wrapper on top of them: routers that
carry a human-readable description per method, and an optional
Resource record per path used by the self-documentation view.

2. The documentation view is content negotiated: it renders JSON by
default and a browsable HTML page when the request prefers text/html.

3. The client package mirrors the server's nested route structure:
Resource("a").Resource("b", "c") yields a client addressing /a/b/c/.

4. Built-in OPTIONS method on every registered path.

Check `example_test.go` for a working example.

*/
package microservices
