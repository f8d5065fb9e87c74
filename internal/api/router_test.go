package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pmehta/splitbook/internal/auth"
	"github.com/pmehta/splitbook/internal/service"
	"github.com/pmehta/splitbook/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret-key-for-router-tests", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	svcs := Services{
		Auth:         service.NewAuthService(authenticator, jwtManager),
		Groups:       service.NewGroupService(store),
		Transactions: service.NewTransactionService(store),
		Settlements:  service.NewSettlementService(store),
		Balances:     service.NewBalanceService(store),
	}

	srv := httptest.NewServer(NewRouter(svcs, jwtManager))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues a request with an optional Bearer token and JSON body,
// decoding the response into out when non-nil.
func doJSON(t *testing.T, method, url, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, baseURL, email, name string) authResponse {
	t.Helper()

	var resp authResponse
	status := doJSON(t, http.MethodPost, baseURL+"/api/auth/register", "", registerRequest{
		Email:       email,
		DisplayName: name,
		Password:    "correct-horse-battery",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register %s: status = %d, want %d", email, status, http.StatusCreated)
	}
	if resp.Token == "" || resp.User.ID == "" {
		t.Fatalf("register %s: missing token or user id in response", email)
	}
	return resp
}

func TestRouterExpenseToBalanceFlow(t *testing.T) {
	srv := newTestServer(t)

	alice := registerUser(t, srv.URL, "alice@example.com", "Alice")
	bob := registerUser(t, srv.URL, "bob@example.com", "Bob")

	var group groupResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/api/groups", alice.Token, groupRequest{
		Name:    "Trip",
		Members: []string{bob.User.ID},
	}, &group)
	if status != http.StatusCreated {
		t.Fatalf("create group: status = %d, want %d", status, http.StatusCreated)
	}
	if len(group.Members) != 2 {
		t.Fatalf("group members = %v, want creator plus bob", group.Members)
	}

	var txn transactionResponse
	status = doJSON(t, http.MethodPost, srv.URL+"/api/groups/"+group.ID+"/transactions", alice.Token, transactionRequest{
		Type:         "expense",
		Amount:       decimal.RequireFromString("90.00"),
		Currency:     "USD",
		Description:  "Hotel",
		PaidBy:       alice.User.ID,
		Participants: []string{alice.User.ID, bob.User.ID},
	}, &txn)
	if status != http.StatusCreated {
		t.Fatalf("create transaction: status = %d, want %d", status, http.StatusCreated)
	}
	if txn.GroupID != group.ID {
		t.Errorf("transaction group = %q, want %q", txn.GroupID, group.ID)
	}

	var balances balancesResponse
	status = doJSON(t, http.MethodGet, srv.URL+"/api/groups/"+group.ID+"/balances", alice.Token, nil, &balances)
	if status != http.StatusOK {
		t.Fatalf("group balances: status = %d, want %d", status, http.StatusOK)
	}
	want := decimal.RequireFromString("45.00")
	if got := balances.Balances[bob.User.ID]; !got.Equal(want) {
		t.Errorf("alice's balance against bob = %s, want %s", got, want)
	}

	// The overall view for bob mirrors the group view with the sign flipped.
	var overall overallBalancesResponse
	status = doJSON(t, http.MethodGet, srv.URL+"/api/balances", bob.Token, nil, &overall)
	if status != http.StatusOK {
		t.Fatalf("overall balances: status = %d, want %d", status, http.StatusOK)
	}
	if got := overall.Balances[alice.User.ID]; !got.Equal(want.Neg()) {
		t.Errorf("bob's balance against alice = %s, want %s", got, want.Neg())
	}
	if len(overall.Groups) != 1 {
		t.Errorf("overall groups = %d, want 1", len(overall.Groups))
	}

	// Bob settles up; the pair drops out of the balance view entirely.
	var settlement settlementResponse
	status = doJSON(t, http.MethodPost, srv.URL+"/api/groups/"+group.ID+"/settlements", bob.Token, settlementRequest{
		FromUserID: bob.User.ID,
		ToUserID:   alice.User.ID,
		Amount:     decimal.RequireFromString("45.00"),
		Currency:   "USD",
	}, &settlement)
	if status != http.StatusCreated {
		t.Fatalf("create settlement: status = %d, want %d", status, http.StatusCreated)
	}

	balances = balancesResponse{}
	status = doJSON(t, http.MethodGet, srv.URL+"/api/groups/"+group.ID+"/balances", alice.Token, nil, &balances)
	if status != http.StatusOK {
		t.Fatalf("group balances after settlement: status = %d, want %d", status, http.StatusOK)
	}
	if len(balances.Balances) != 0 {
		t.Errorf("balances after full settlement = %v, want empty", balances.Balances)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/groups"},
		{http.MethodGet, "/api/balances"},
		{http.MethodPost, "/api/transactions"},
	} {
		status := doJSON(t, tc.method, srv.URL+tc.path, "", nil, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want %d", tc.method, tc.path, status, http.StatusUnauthorized)
		}
	}

	status := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil, nil)
	if status != http.StatusOK {
		t.Errorf("healthz: status = %d, want %d", status, http.StatusOK)
	}
}

func TestRouterRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv.URL, "alice@example.com", "Alice")

	var group groupResponse
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/groups", alice.Token, groupRequest{Name: "Solo"}, &group); status != http.StatusCreated {
		t.Fatalf("create group: status = %d", status)
	}

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{
			name:   "negative amount",
			method: http.MethodPost,
			path:   "/api/transactions",
			body: transactionRequest{
				Type:     "expense",
				Amount:   decimal.RequireFromString("-5.00"),
				Currency: "USD",
			},
			want: http.StatusBadRequest,
		},
		{
			name:   "bad currency",
			method: http.MethodPost,
			path:   "/api/transactions",
			body: transactionRequest{
				Type:     "expense",
				Amount:   decimal.RequireFromString("5.00"),
				Currency: "dollars",
			},
			want: http.StatusBadRequest,
		},
		{
			name:   "unknown type",
			method: http.MethodPost,
			path:   "/api/transactions",
			body: transactionRequest{
				Type:     "transfer",
				Amount:   decimal.RequireFromString("5.00"),
				Currency: "USD",
			},
			want: http.StatusBadRequest,
		},
		{
			name:   "self settlement",
			method: http.MethodPost,
			path:   "/api/groups/" + group.ID + "/settlements",
			body: settlementRequest{
				FromUserID: alice.User.ID,
				ToUserID:   alice.User.ID,
				Amount:     decimal.RequireFromString("5.00"),
				Currency:   "USD",
			},
			want: http.StatusBadRequest,
		},
		{
			name:   "missing group",
			method: http.MethodGet,
			path:   "/api/groups/no-such-group/balances",
			body:   nil,
			want:   http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if status := doJSON(t, tc.method, srv.URL+tc.path, alice.Token, tc.body, nil); status != tc.want {
				t.Errorf("status = %d, want %d", status, tc.want)
			}
		})
	}

	if status := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", registerRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice Again",
		Password:    "correct-horse-battery",
	}, nil); status != http.StatusConflict {
		t.Errorf("duplicate registration: status = %d, want %d", status, http.StatusConflict)
	}
}
