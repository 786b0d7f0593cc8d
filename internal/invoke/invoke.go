// Package invoke adapts the resolver to a serverless HTTP trigger. A request
// carries query-string parameters; a response carries a status code and a
// JSON body. The field names follow the AWS Lambda function URL event shape
// so recorded events can be replayed locally.
package invoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jpl-au/suggest/internal/log"
	"github.com/jpl-au/suggest/internal/store"
	"github.com/jpl-au/suggest/internal/suggest"
)

// QueryParam is the query-string parameter holding the raw query.
const QueryParam = "q"

// Request is an incoming trigger event. Only the query string is used.
type Request struct {
	QueryStringParameters map[string]string `json:"queryStringParameters"`
}

// Query returns the q parameter, or "" when absent.
func (r Request) Query() string {
	return r.QueryStringParameters[QueryParam]
}

// Response is returned to the invoking platform.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

// Resolver is the part of suggest.Resolver the handler needs.
type Resolver interface {
	ResolveDetail(ctx context.Context, raw string) (suggest.Resolution, error)
}

// Handler answers trigger requests.
type Handler struct {
	resolver Resolver
	source   string
}

// New creates a Handler. The source labels audit log entries, e.g.
// "http:suggest" or "cli:invoke".
func New(r Resolver, source string) *Handler {
	return &Handler{resolver: r, source: source}
}

// Invoke resolves the request's query and returns a 200 response whose body
// is a JSON array of item objects. Resolver failures are returned as errors;
// translating them into status codes belongs to the platform.
func (h *Handler) Invoke(ctx context.Context, req Request) (Response, error) {
	q := req.Query()
	res, err := h.resolver.ResolveDetail(ctx, q)

	log.Event(h.source, "search").
		Query(q).
		Table(res.Table).
		Count(len(res.Items)).
		Write(err)

	if err != nil {
		return Response{}, err
	}

	body, err := json.Marshal(res.Items)
	if err != nil {
		return Response{}, fmt.Errorf("marshal results: %w", err)
	}
	return Response{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

// DecodeEvent reads a single JSON event. A null or missing
// queryStringParameters object is treated as no parameters.
func DecodeEvent(r io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("decode event: %w", err)
	}
	return req, nil
}

// EncodeResponse writes resp as indented JSON.
func EncodeResponse(w io.Writer, resp Response) error {
	b, err := store.MarshalJSON(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
