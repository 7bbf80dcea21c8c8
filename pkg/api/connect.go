package api

import (
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// handlerOptions puts the JSON codec ahead of caller options.
func handlerOptions(opts []connect.HandlerOption) connect.HandlerOption {
	return connect.WithHandlerOptions(append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)...)
}

// clientOptions puts the JSON codec ahead of caller options.
func clientOptions(opts []connect.ClientOption) connect.ClientOption {
	return connect.WithClientOptions(append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)...)
}

// router dispatches a service's procedures by exact path.
type router map[string]http.Handler

func (r router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}

func procedureURL(baseURL, procedure string) string {
	return strings.TrimRight(baseURL, "/") + procedure
}
