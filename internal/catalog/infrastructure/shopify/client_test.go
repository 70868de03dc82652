package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/config"
)

const productJSON = `{
  "id": "gid://shopify/Product/1",
  "title": "Hydra+ Electrolytes",
  "description": "Sugar free hydration",
  "handle": "hydra-plus",
  "priceRange": {"minVariantPrice": {"amount": "19.99", "currencyCode": "EUR"}},
  "images": {"edges": [{"node": {"url": "https://cdn.example/1.png", "altText": "box"}}]},
  "variants": {"edges": [{"node": {
    "id": "gid://shopify/ProductVariant/11",
    "title": "Lemon",
    "price": {"amount": "19.99", "currencyCode": "EUR"},
    "availableForSale": true,
    "selectedOptions": [{"name": "Flavor", "value": "Lemon"}]
  }}]},
  "options": [{"name": "Flavor", "values": ["Lemon"]}]
}`

type capturedRequest struct {
	Token string
	Body  graphQLRequest
}

func newTestServer(t *testing.T, reply string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.Token = r.Header.Get(tokenHeader)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.Body))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(endpoint string) *Client {
	return NewClient(config.CommerceConfig{Endpoint: endpoint, StorefrontToken: "token-1", Timeout: 2})
}

func TestFetchProducts(t *testing.T) {
	var captured capturedRequest
	srv := newTestServer(t, `{"data":{"products":{"edges":[{"node":`+productJSON+`}]}}}`, &captured)

	products, err := newTestClient(srv.URL).FetchProducts(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "hydra-plus", p.Handle)
	assert.True(t, p.MinPrice.Amount.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, "https://cdn.example/1.png", p.FirstImage().URL)
	require.Len(t, p.Variants, 1)
	assert.True(t, p.Variants[0].AvailableForSale)
	assert.Equal(t, []domain.SelectedOption{{Name: "Flavor", Value: "Lemon"}}, p.Variants[0].SelectedOptions)

	assert.Equal(t, "token-1", captured.Token)
	assert.Contains(t, captured.Body.Query, "products(first: $first)")
	assert.EqualValues(t, 4, captured.Body.Variables["first"])
}

func TestFetchProductByHandleNotFound(t *testing.T) {
	srv := newTestServer(t, `{"data":{"productByHandle":null}}`, nil)

	_, err := newTestClient(srv.URL).FetchProductByHandle(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFetchProductByHandle(t *testing.T) {
	srv := newTestServer(t, `{"data":{"productByHandle":`+productJSON+`}}`, nil)

	p, err := newTestClient(srv.URL).FetchProductByHandle(context.Background(), "hydra-plus")
	require.NoError(t, err)
	assert.Equal(t, "Hydra+ Electrolytes", p.Title)
}

func TestGraphQLErrors(t *testing.T) {
	srv := newTestServer(t, `{"errors":[{"message":"Throttled"}]}`, nil)

	_, err := newTestClient(srv.URL).FetchProducts(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrCommerceBackend)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchProducts(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrCommerceBackend)
}

func TestCreateCheckoutSession(t *testing.T) {
	var captured capturedRequest
	srv := newTestServer(t, `{"data":{"cartCreate":{"cart":{"id":"c1","checkoutUrl":"https://shop.example/cart/c/1"},"userErrors":[]}}}`, &captured)

	items := []cartdomain.LineItem{
		{VariantID: "gid://shopify/ProductVariant/11", Quantity: 2},
		{VariantID: "gid://shopify/ProductVariant/12", Quantity: 1},
	}
	url, err := newTestClient(srv.URL).CreateCheckoutSession(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/cart/c/1", url)

	assert.True(t, strings.Contains(captured.Body.Query, "cartCreate"))
	input := captured.Body.Variables["input"].(map[string]any)
	lines := input["lines"].([]any)
	require.Len(t, lines, 2)
	first := lines[0].(map[string]any)
	assert.Equal(t, "gid://shopify/ProductVariant/11", first["merchandiseId"])
	assert.EqualValues(t, 2, first["quantity"])
}

func TestCreateCheckoutSessionUserErrors(t *testing.T) {
	srv := newTestServer(t, `{"data":{"cartCreate":{"cart":null,"userErrors":[{"field":["lines"],"message":"Merchandise does not exist"}]}}}`, nil)

	_, err := newTestClient(srv.URL).CreateCheckoutSession(context.Background(), []cartdomain.LineItem{{VariantID: "x", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrCommerceBackend)
	assert.Contains(t, err.Error(), "Merchandise does not exist")
}
