package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/primecart/internal/advisor"
	"github.com/roach88/primecart/internal/config"
	"github.com/roach88/primecart/internal/domain"
)

func TestRootCommand_InvalidFormat(t *testing.T) {
	s := newTestShop(t)
	out, err := s.run("--format", "yaml", "whoami")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "invalid format")
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"catalog", "cart", "checkout", "orders", "login", "logout", "whoami", "stats", "advise", "scenario"} {
		assert.Contains(t, names, want)
	}
}

func TestWhoami_DefaultsToDemoCustomer(t *testing.T) {
	s := newTestShop(t)

	var got struct {
		User *domain.User `json:"user"`
	}
	resp := s.runJSON(&got, "whoami")
	require.Equal(t, "ok", resp.Status)
	require.NotNil(t, got.User)
	assert.Equal(t, domain.DemoCustomer, *got.User)
}

func TestLoginLogout_Persist(t *testing.T) {
	s := newTestShop(t)

	out := s.mustRun("login", "admin")
	assert.Contains(t, out, "Store Owner <admin@primecart.ai> (ADMIN)")
	assert.Contains(t, s.mustRun("whoami"), "Store Owner")

	s.mustRun("logout")
	assert.Contains(t, s.mustRun("whoami"), "Not logged in.")

	s.mustRun("login", "guest")
	assert.Contains(t, s.mustRun("whoami"), "Demo Customer")
}

func TestLogin_UnknownRole(t *testing.T) {
	s := newTestShop(t)
	out, err := s.run("login", "root")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "unknown role")
}

func TestCatalog_AdminCommandsRequireAdmin(t *testing.T) {
	s := newTestShop(t)

	for _, args := range [][]string{
		{"catalog", "add", "--name", "Tee", "--price", "20"},
		{"catalog", "delete", "whatever"},
		{"stats"},
		{"advise", "--insight"},
	} {
		resp := s.runJSON(nil, args...)
		require.Equal(t, "error", resp.Status, args)
		assert.Equal(t, ErrCodePermission, resp.Error.Code, args)
	}
}

func TestCatalog_SeedAndList(t *testing.T) {
	s := newTestShop(t)
	products := s.seeded()

	// Each seeded product goes on top, so the last entry is listed first.
	assert.Equal(t, "Linen Shirt", products[0].Name)
	assert.Equal(t, "Chelsea Boot", products[1].Name)
	assert.Equal(t, "Cashmere Scarf", products[2].Name)
	assert.Equal(t, domain.DefaultFeatures, products[0].Features)
	assert.NotEmpty(t, products[0].ID)

	var cheap []domain.Product
	s.runJSON(&cheap, "catalog", "list", "--sort", "price-low", "--max-price", "100")
	require.Len(t, cheap, 2)
	assert.Equal(t, "Cashmere Scarf", cheap[0].Name)
	assert.Equal(t, "Linen Shirt", cheap[1].Name)

	var found []domain.Product
	s.runJSON(&found, "catalog", "list", "--query", "BOOT")
	require.Len(t, found, 1)
	assert.Equal(t, "Chelsea Boot", found[0].Name)

	var footwear []domain.Product
	s.runJSON(&footwear, "catalog", "list", "--category", "Footwear")
	require.Len(t, footwear, 1)

	text := s.mustRun("catalog", "list")
	assert.Contains(t, text, "Chelsea Boot")
	assert.Contains(t, text, "6 (low)")
}

func TestCatalog_ListInvalidSort(t *testing.T) {
	s := newTestShop(t)
	_, err := s.run("catalog", "list", "--sort", "newest")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCatalog_SeedRejectsInvalidEntry(t *testing.T) {
	s := newTestShop(t)
	s.mustRun("login", "admin")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - name: Good\n    price: 10\n  - name: Bad\n    price: -1\n"), 0o644))

	resp := s.runJSON(nil, "catalog", "seed", path)
	require.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)

	var products []domain.Product
	s.runJSON(&products, "catalog", "list")
	assert.Empty(t, products, "nothing is added when any entry is invalid")
}

func TestCatalog_AddAndDelete(t *testing.T) {
	s := newTestShop(t)
	s.mustRun("login", "admin")

	var p domain.Product
	resp := s.runJSON(&p, "catalog", "add",
		"--name", "Silk Tie", "--price", "45", "--category", "Accessories",
		"--stock", "3", "--feature", "Silk", "--feature", "Hand Rolled, Italian")
	require.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Silk Tie", p.Name)
	assert.Equal(t, []string{"Silk", "Hand Rolled, Italian"}, p.Features)
	assert.Equal(t, domain.DefaultProductDescription, p.Description)
	assert.Equal(t, domain.DefaultProductRating, p.Rating)

	out := s.mustRun("catalog", "delete", p.ID)
	assert.Contains(t, out, "Deleted "+p.ID)

	resp = s.runJSON(nil, "catalog", "delete", p.ID)
	require.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestCatalog_AddRejectsInvalidForm(t *testing.T) {
	s := newTestShop(t)
	s.mustRun("login", "admin")

	resp := s.runJSON(nil, "catalog", "add", "--price", "0", "--category", "Toys")
	require.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)

	details, ok := resp.Error.Details.([]any)
	require.True(t, ok, "details list the rejected fields")
	var fields []string
	for _, d := range details {
		fields = append(fields, d.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"name", "price", "category"}, fields)
}

func TestCart_Flow(t *testing.T) {
	s := newTestShop(t)
	products := s.seeded()
	shirt, boot := products[0], products[1]

	s.mustRun("cart", "add", shirt.ID)
	s.mustRun("cart", "add", boot.ID)
	s.mustRun("cart", "add", shirt.ID)

	var view struct {
		Items     []domain.CartItem `json:"items"`
		ItemCount int               `json:"itemCount"`
		Subtotal  float64           `json:"subtotal"`
		Open      bool              `json:"open"`
	}
	resp := s.runJSON(&view, "cart", "show")
	require.Equal(t, "ok", resp.Status)
	require.Len(t, view.Items, 2)
	assert.Equal(t, shirt.ID, view.Items[0].ID)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, 371.0, view.Subtotal)
	assert.True(t, view.Open)

	s.runJSON(&view, "cart", "set", boot.ID, "3")
	assert.Equal(t, 5, view.ItemCount)
	assert.Equal(t, 731.0, view.Subtotal)

	resp = s.runJSON(nil, "cart", "set", boot.ID, "0")
	require.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeInput, resp.Error.Code)

	s.runJSON(&view, "cart", "remove", shirt.ID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 540.0, view.Subtotal)

	resp = s.runJSON(nil, "cart", "remove", shirt.ID)
	require.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)

	out := s.mustRun("cart", "show")
	assert.Contains(t, out, "Shipping: free")
	assert.Contains(t, out, "Total:    $540.00")

	assert.Contains(t, s.mustRun("cart", "clear"), "Your cart is empty.")
}

func TestCart_AddUnknownProduct(t *testing.T) {
	s := newTestShop(t)
	resp := s.runJSON(nil, "cart", "add", "missing")
	require.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestCart_KeepsDeletedProduct(t *testing.T) {
	s := newTestShop(t)
	products := s.seeded()

	s.mustRun("cart", "add", products[2].ID)
	s.mustRun("catalog", "delete", products[2].ID)

	out := s.mustRun("cart", "show")
	assert.Contains(t, out, "Cashmere Scarf")
}

func TestCheckout(t *testing.T) {
	s := newTestShop(t)
	products := s.seeded()
	s.mustRun("cart", "add", products[2].ID)

	resp := s.runJSON(nil, "checkout", "--city", "Springfield")
	require.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "address is required")

	var order domain.Order
	resp = s.runJSON(&order, "checkout", "--first-name", "Demo", "--address", "1 Main St", "--city", "Springfield")
	require.Equal(t, "ok", resp.Status)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, 50.0, order.Total)
	require.Len(t, order.Items, 1)

	var orders []domain.Order
	s.runJSON(&orders, "orders")
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	assert.Contains(t, s.mustRun("cart", "show"), "Your cart is empty.")
}

func TestCheckout_EmptyCart(t *testing.T) {
	t.Run("permissive", func(t *testing.T) {
		s := newTestShop(t)
		var order domain.Order
		resp := s.runJSON(&order, "checkout", "--address", "1 Main St", "--city", "Springfield")
		require.Equal(t, "ok", resp.Status)
		assert.Empty(t, order.Items)
		assert.Zero(t, order.Total)
	})

	t.Run("strict", func(t *testing.T) {
		s := newTestShop(t)
		resp := s.runJSON(nil, "--strict", "checkout", "--address", "1 Main St", "--city", "Springfield")
		require.Equal(t, "error", resp.Status)
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)

		var orders []domain.Order
		s.runJSON(&orders, "orders")
		assert.Empty(t, orders)
	})
}

func TestStats(t *testing.T) {
	s := newTestShop(t)
	products := s.seeded()

	s.mustRun("cart", "add", products[1].ID)
	s.mustRun("checkout", "--address", "1 Main St", "--city", "Springfield")

	var d dashboard
	resp := s.runJSON(&d, "stats")
	require.Equal(t, "ok", resp.Status)
	assert.Equal(t, 180.0, d.Summary.TotalRevenue)
	assert.Equal(t, 1, d.Summary.TotalOrders)
	assert.Equal(t, 1, d.Summary.ActiveCustomers)
	assert.Equal(t, 1, d.Statuses[domain.StatusPending])
	require.Len(t, d.Monthly, 1)
	require.Len(t, d.LowStock, 1)
	assert.Equal(t, "Chelsea Boot", d.LowStock[0].Name)

	out := s.mustRun("stats")
	assert.Contains(t, out, "Revenue:          $180.00")
	assert.Contains(t, out, "1 pending, 0 shipped, 0 delivered")
}

func TestAdvise(t *testing.T) {
	t.Run("offline without key", func(t *testing.T) {
		s := newTestShop(t)
		products := s.seeded()

		var got advice
		s.runJSON(&got, "advise", products[0].ID)
		assert.Equal(t, advisor.MsgRecommendUnavailable, got.Text)
		assert.Equal(t, products[0].ID, got.ProductID)

		s.runJSON(&got, "advise", "--insight")
		assert.Equal(t, advisor.MsgInsightUnavailable, got.Text)
	})

	t.Run("gemini with key", func(t *testing.T) {
		var prompts []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			prompts = append(prompts, string(body))
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Wear it to a gallery opening."}]}}]}`)
		}))
		t.Cleanup(srv.Close)

		s := newTestShop(t)
		products := s.seeded()
		t.Setenv(config.EnvAdvisorKey, "test-key")
		t.Setenv(config.EnvAdvisorURL, srv.URL+"/")

		out := s.mustRun("advise", products[1].ID)
		assert.Equal(t, "Wear it to a gallery opening.\n", out)

		out = s.mustRun("advise", "--insight")
		assert.Equal(t, "Wear it to a gallery opening.\n", out)

		require.Len(t, prompts, 2)
		assert.Contains(t, prompts[0], "Chelsea Boot")
		for _, p := range products {
			assert.Contains(t, prompts[1], p.Name)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`, http.StatusBadRequest)
		}))
		t.Cleanup(srv.Close)

		s := newTestShop(t)
		products := s.seeded()
		t.Setenv(config.EnvAdvisorKey, "test-key")
		t.Setenv(config.EnvAdvisorURL, srv.URL+"/")

		out := s.mustRun("advise", products[0].ID)
		assert.Equal(t, advisor.MsgRecommendFailed+"\n", out)

		out = s.mustRun("advise", "--insight")
		assert.Equal(t, "Could not generate insights.\n", out)
	})

	t.Run("unknown product", func(t *testing.T) {
		s := newTestShop(t)
		resp := s.runJSON(nil, "advise", "missing")
		require.Equal(t, "error", resp.Status)
		assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("argument count", func(t *testing.T) {
		s := newTestShop(t)
		_, err := s.run("advise")
		require.Error(t, err)
		_, err = s.run("advise", "--insight", "extra")
		require.Error(t, err)
	})
}

func TestCommands_DBFromEnvironment(t *testing.T) {
	s := newTestShop(t)
	db := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("PRIMECART_DB", db)

	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--env-file", "", "logout"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(db)
	assert.NoError(t, err, "store created at PRIMECART_DB")
	_, err = os.Stat(s.db)
	assert.True(t, os.IsNotExist(err), "--db was not given")
}
