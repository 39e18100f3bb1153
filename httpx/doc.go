// Package httpx is a small HTTP/1.1 server that parses and serializes the
// protocol by hand on top of raw TCP connections.
//
// Each connection carries one request: the server performs a single read,
// parses it, dispatches it over a fixed route table, writes one complete
// response and closes the connection.
//
// Routes
//   - GET /               empty 200
//   - GET /echo/{text}    echoes text, gzip when the client accepts it
//   - GET /user-agent     echoes the User-Agent header, 400 without one
//   - GET /files/{name}   file contents from the configured directory
//   - POST /files/{name}  stores the request body, 201
//
// Quick start:
//
//	s := &httpx.Server{
//	    Addr:   ":4221",
//	    Router: httpx.NewRouter(httpx.RouterConfig{Directory: "/tmp/files"}),
//	}
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
package httpx
