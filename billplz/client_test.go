package billplz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBill(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/bills", r.URL.Path)

		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "api-key", user)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "col-1", r.PostForm.Get("collection_id"))
		assert.Equal(t, "4990", r.PostForm.Get("amount"))
		assert.Equal(t, "ord_1", r.PostForm.Get("reference_1"))
		assert.Equal(t, "Order ID", r.PostForm.Get("reference_1_label"))
		assert.Empty(t, r.PostForm.Get("mobile"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"bill_1","paid":false,"state":"due","amount":4990,"url":"https://billplz.test/bills/bill_1"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "api-key", CollectionID: "col-1", BaseURL: srv.URL})
	bill, err := client.CreateBill(context.Background(), CreateBillRequest{
		Email:           "aina@example.com",
		Name:            "Aina",
		AmountSen:       4990,
		CallbackURL:     "https://site.test/api/billplz/callback",
		Description:     "Landing page package",
		Reference1Label: "Order ID",
		Reference1:      "ord_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "bill_1", bill.ID)
	assert.Equal(t, StateDue, bill.State)
	assert.Equal(t, int64(4990), bill.Amount)
}

func TestCreateBillMissingConfig(t *testing.T) {
	_, err := NewClient(Config{CollectionID: "col"}).CreateBill(context.Background(), CreateBillRequest{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewClient(Config{APIKey: "key"}).CreateBill(context.Background(), CreateBillRequest{})
	assert.ErrorIs(t, err, ErrMissingCollectionID)
}

func TestCreateBillGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"Unauthorized","message":"Access denied"}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "bad", CollectionID: "col", BaseURL: srv.URL})
	_, err := client.CreateBill(context.Background(), CreateBillRequest{AmountSen: 100})
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
	assert.Equal(t, []string{"Access denied"}, gwErr.Messages)
	assert.True(t, IsCredentialError(err))
}

func TestParseGatewayErrorMessageList(t *testing.T) {
	err := parseGatewayError(http.StatusUnprocessableEntity, []byte(`{"error":{"type":"RecordInvalid","message":["Email is invalid","Amount is too low"]}}`))

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, []string{"Email is invalid", "Amount is too low"}, gwErr.Messages)
	assert.False(t, IsCredentialError(err))
}

func TestGetBill(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/bills/bill_9", r.URL.Path)
		w.Write([]byte(`{"id":"bill_9","paid":true,"state":"paid","reference_1":"ord_9"}`))
	}))
	defer srv.Close()

	bill, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL}).GetBill(context.Background(), "bill_9")
	require.NoError(t, err)
	assert.True(t, bill.Paid)
	assert.Equal(t, "ord_9", bill.Reference1)
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, SandboxBaseURL, Config{Sandbox: true}.baseURL())
	assert.Equal(t, ProductionBaseURL, Config{}.baseURL())
}

func TestParsePaidAt(t *testing.T) {
	got, ok := ParsePaidAt("2026-05-01 10:00:00 +0800")
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2026, 5, 1, 2, 0, 0, 0, time.UTC)))

	for _, v := range []string{"", "2026-05-01T10:00:00+08:00", "yesterday"} {
		_, ok := ParsePaidAt(v)
		assert.False(t, ok, "value %q", v)
	}
}
