package core

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// ParamTimeLayout renders time parameters in UTC with milliseconds.
const ParamTimeLayout = "2006-01-02T15:04:05.000+00:00"

// Param is one query parameter. A nil Value, a nil pointer or a zero time.Time is
// absent and never sent.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered set of query parameters without duplicate keys.
type Params []Param

// Set replaces the value of key in place, or appends it.
func (p Params) Set(key string, value any) Params {
	for i := range p {
		if p[i].Key == key {
			p[i].Value = value
			return p
		}
	}
	return append(p, Param{Key: key, Value: value})
}

// Get returns the rendered value of key and whether it is present.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return FormatParam(param.Value)
		}
	}
	return "", false
}

// Canonical renders the present parameters as key=value pairs joined by "&" in
// insertion order, without URL encoding. It is the form that enters the request digest.
func (p Params) Canonical() string {
	var b strings.Builder
	for _, param := range p {
		v, ok := FormatParam(param.Value)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(param.Key)
		b.WriteByte('=')
		b.WriteString(v)
	}
	return b.String()
}

// Encode renders the present parameters as a URL query string in insertion order.
func (p Params) Encode() string {
	var b strings.Builder
	for _, param := range p {
		v, ok := FormatParam(param.Value)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

// FormatParam renders a parameter value. The boolean result is false for absent values.
func FormatParam(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case bool:
		return strconv.FormatBool(v), true
	case *bool:
		if v == nil {
			return "", false
		}
		return strconv.FormatBool(*v), true
	case int:
		return strconv.Itoa(v), true
	case *int:
		if v == nil {
			return "", false
		}
		return strconv.Itoa(*v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case *int64:
		if v == nil {
			return "", false
		}
		return strconv.FormatInt(*v, 10), true
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return v.UTC().Format(ParamTimeLayout), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return "", false
		}
		return v.UTC().Format(ParamTimeLayout), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// Request describes one authenticated call. Route is relative to the version prefix.
type Request struct {
	Method string
	Route  string
	Params Params
	// Body is encoded as JSON. A []byte body is sent verbatim; nil sends no body.
	Body    any
	Sandbox bool
	// ExpectedStatus overrides DefaultExpectedStatus when non-zero.
	ExpectedStatus int
}

func NewRequest(method, route string) *Request {
	return &Request{
		Method: strings.ToUpper(method),
		Route:  route,
	}
}

func (r *Request) SetParam(key string, value any) *Request {
	r.Params = r.Params.Set(key, value)
	return r
}

func (r *Request) SetBody(body any) *Request {
	r.Body = body
	return r
}

func (r *Request) SetSandbox(sandbox bool) *Request {
	r.Sandbox = sandbox
	return r
}

func (r *Request) SetExpectedStatus(status int) *Request {
	r.ExpectedStatus = status
	return r
}

// Expected returns the status code that counts as success for the request.
func (r *Request) Expected() int {
	if r.ExpectedStatus != 0 {
		return r.ExpectedStatus
	}
	return DefaultExpectedStatus(r.Method)
}

// EncodeBody returns the exact bytes that are transmitted and digested.
func (r *Request) EncodeBody() ([]byte, error) {
	switch b := r.Body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	default:
		data, err := sonic.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", r.Method, r.Route, err)
		}
		return data, nil
	}
}

// DefaultExpectedStatus is 204 for DELETE and 200 for everything else.
func DefaultExpectedStatus(method string) int {
	if strings.EqualFold(method, http.MethodDelete) {
		return http.StatusNoContent
	}
	return http.StatusOK
}

// JoinRoute builds "/{version}[/sandbox]/{route}" with the surrounding slashes of every
// segment stripped, e.g. ("v1", false, "webhook-config/") gives "/v1/webhook-config".
func JoinRoute(version string, sandbox bool, route string) string {
	segments := []string{version}
	if sandbox {
		segments = append(segments, "sandbox")
	}
	segments = append(segments, route)

	var b strings.Builder
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Response is a successful answer to a Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Nonce is the nonce of the attempt that succeeded.
	Nonce int64
	// Resent is set when the answer came from the nonce recovery resend.
	Resent bool
}

// NoContent reports an empty body.
func (r *Response) NoContent() bool {
	return len(r.Body) == 0
}

// Decode unmarshals the body into v. It is a no-op for empty bodies.
func (r *Response) Decode(v any) error {
	if r.NoContent() || v == nil {
		return nil
	}
	if err := sonic.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
