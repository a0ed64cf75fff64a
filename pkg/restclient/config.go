package restclient

import (
	"context"

	"go.uber.org/zap"
)

// Value is a connection setting that is either a static literal or a
// per-call resolver invoked with the descriptor of the outgoing request.
type Value[T any] struct {
	static   T
	resolver func(ctx context.Context, d *Descriptor) (T, error)
}

// Static wraps a literal value.
func Static[T any](v T) Value[T] {
	return Value[T]{static: v}
}

// Resolver wraps a function evaluated on every call, e.g. one reading a
// bearer token from a persisted credential store.
func Resolver[T any](fn func(ctx context.Context, d *Descriptor) (T, error)) Value[T] {
	return Value[T]{resolver: fn}
}

// Resolve evaluates the value for one call.
func (v Value[T]) Resolve(ctx context.Context, d *Descriptor) (T, error) {
	if v.resolver != nil {
		return v.resolver(ctx, d)
	}
	return v.static, nil
}

// Config is the shared connection configuration. It is initialized once at
// startup and read, never written, by the executor; only the interceptor
// chains are meant to be mutated afterwards by collaborators.
type Config struct {
	// Base is the scheme://host[:port] prefix of every built URL.
	Base string

	// Version substitutes the literal `{api-version}` URL token.
	Version string

	// WithCredentials asks the transport to include stored cookies.
	WithCredentials bool

	// Token yields the bearer token; a non-empty token wins over basic auth.
	Token Value[string]

	// Username and Password yield basic-auth credentials, used only when
	// both resolve non-empty and no token did.
	Username Value[string]
	Password Value[string]

	// Headers yields extra headers merged under per-call overrides.
	Headers Value[map[string]string]

	// EncodePath percent-encodes path parameter values. Defaults to
	// standard URI escaping that leaves slashes intact.
	EncodePath func(string) string

	// Interceptors holds the request- and response-stage chains.
	Interceptors *Interceptors
}

func (c *Config) interceptors() *Interceptors {
	if c.Interceptors == nil {
		c.Interceptors = NewInterceptors()
	}
	return c.Interceptors
}

// Client executes Descriptors against one Config through a Transport.
type Client struct {
	cfg       *Config
	transport Transport
	log       *zap.SugaredLogger
}

// New builds a client with the default resty-backed transport.
func New(cfg *Config) *Client {
	return NewWithTransport(cfg, NewRestyTransport(0), nil)
}

// NewWithTransport builds a client around an injected transport. log may be
// nil; it is only used for diagnostics such as cancel-handler panics.
func NewWithTransport(cfg *Config, transport Transport, log *zap.SugaredLogger) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	if transport == nil {
		transport = NewRestyTransport(0)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	cfg.interceptors()
	return &Client{cfg: cfg, transport: transport, log: log}
}

// Config exposes the connection configuration, e.g. for registering
// interceptors after construction.
func (c *Client) Config() *Config { return c.cfg }
