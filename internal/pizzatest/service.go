// Package pizzatest runs an in-memory pizza ordering service for tests.
package pizzatest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "pizzaservice v0.1"

type order struct {
	address  string
	name     string
	pizzaIDs []string
	placedAt time.Time
}

type Service struct {
	*httptest.Server

	key    []byte
	tamper func(string) string

	mu     sync.Mutex
	orders map[int]order
	nextID int

	hits atomic.Int64
}

type Option func(*Service)

// WithTamper rewrites the address served on receipts.
func WithTamper(f func(address string) string) Option {
	return func(s *Service) {
		s.tamper = f
	}
}

func WithKey(key []byte) Option {
	return func(s *Service) {
		s.key = key
	}
}

// NewService starts the service. Callers must Close it.
func NewService(opts ...Option) *Service {
	s := &Service{
		key:    []byte("pizzatest-secret"),
		orders: make(map[int]order),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /order", s.handleOrder)
	mux.HandleFunc("GET /receipt", s.handleReceipt)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))

	return s
}

// Target returns the host and port the service listens on.
func (s *Service) Target() (string, int) {
	u, err := url.Parse(s.URL)
	if err != nil {
		panic(fmt.Sprintf("pizzatest: invalid server url %q: %v", s.URL, err))
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		panic(fmt.Sprintf("pizzatest: invalid server port %q: %v", u.Port(), err))
	}
	return u.Hostname(), port
}

// Hits is the number of requests the service has received.
func (s *Service) Hits() int {
	return int(s.hits.Load())
}

// IssueToken signs a token for orderID the way the service does on orders.
func (s *Service) IssueToken(orderID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:   Issuer,
		Audience: jwt.ClaimStrings{orderID},
	})
	return token.SignedString(s.key)
}

func (s *Service) handleOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form data missing", http.StatusBadRequest)
		return
	}

	o := order{
		address:  r.PostForm.Get("address"),
		name:     r.PostForm.Get("name"),
		pizzaIDs: r.PostForm["pizza_id"],
		placedAt: time.Now().UTC(),
	}
	if o.address == "" || o.name == "" || len(o.pizzaIDs) == 0 {
		http.Error(w, "missing form data", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.orders[id] = o
	s.mu.Unlock()

	token, err := s.IssueToken(strconv.Itoa(id))
	if err != nil {
		http.Error(w, "failed to place order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/jwt")
	_, _ = fmt.Fprintln(w, token)
}

func (s *Service) handleReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("order_id"))
	if err != nil || id < 0 {
		http.Error(w, "no or invalid order_id provided", http.StatusBadRequest)
		return
	}

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		http.Error(w, "missing or malformed token", http.StatusUnauthorized)
		return
	}

	_, err = jwt.Parse(raw, func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(strconv.Itoa(id)),
	)
	if err != nil {
		http.Error(w, "invalid token provided", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	o, ok := s.orders[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "order_id not found", http.StatusBadRequest)
		return
	}

	address := o.address
	if s.tamper != nil {
		address = s.tamper(address)
	}

	items := make([]map[string]string, 0, len(o.pizzaIDs))
	for _, pizzaID := range o.pizzaIDs {
		items = append(items, map[string]string{
			"id":          pizzaID,
			"price":       "9.99",
			"count":       "1",
			"description": "margherita",
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"address":     address,
		"name":        o.name,
		"timestamp":   o.placedAt.Format(time.DateTime),
		"order_items": items,
	})
}
