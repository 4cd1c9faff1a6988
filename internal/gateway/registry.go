package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/utils"
)

// Gateway identifiers stored in credentials_checkout.gateway_id and used in webhook URLs.
const (
	IDAppmax      = "appmax"
	IDAsaas       = "asaas"
	IDMercadoPago = "mercadopago"
)

// ErrUnknownGateway is returned when no definition matches a gateway id.
var ErrUnknownGateway = errors.New("unknown gateway")

// Options configure how an adapter reaches its gateway.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	// Sandbox restricts adapters to test credentials where the gateway distinguishes them.
	Sandbox bool
}

func (o Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: o.timeout()}
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return 30 * time.Second
	}
	return o.Timeout
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Factory builds an adapter bound to one set of credentials.
type Factory func(cred *models.Credentials, opts Options) (Adapter, error)

// Definition registers one gateway.
type Definition struct {
	ID string
	// TokenHeader carries the shared webhook secret, empty when the gateway sends none.
	TokenHeader string
	Options     Options
	New         Factory
}

// VerifyToken checks the webhook secret against the stored bcrypt hash.
// Deliveries pass when no hash is configured or the gateway has no token header.
func (d Definition) VerifyToken(h http.Header, hash string) bool {
	if hash == "" || d.TokenHeader == "" {
		return true
	}
	token := h.Get(d.TokenHeader)
	return token != "" && utils.CheckSecret(token, hash)
}

// Registry maps gateway ids to definitions.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates a registry from definitions. Later ids replace earlier ones.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.ID] = d
	}
	return r
}

// Definition returns the definition registered under id.
func (r *Registry) Definition(id string) (Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Adapter builds the adapter selected by the credentials' gateway id.
func (r *Registry) Adapter(cred *models.Credentials) (Adapter, error) {
	if cred == nil {
		return nil, fmt.Errorf("nil credentials: %w", ErrUnknownGateway)
	}
	d, ok := r.defs[cred.GatewayID]
	if !ok {
		return nil, fmt.Errorf("%q: %w", cred.GatewayID, ErrUnknownGateway)
	}
	return d.New(cred, d.Options)
}

// IDs lists registered gateway ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
