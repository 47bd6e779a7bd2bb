package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/primecart/internal/config"
	"github.com/roach88/primecart/internal/domain"
)

// testShop points every command at one SQLite file in a temp dir.
type testShop struct {
	t  *testing.T
	db string
}

func newTestShop(t *testing.T) *testShop {
	t.Helper()
	for _, key := range []string{config.EnvDB, config.EnvLogLevel, config.EnvAdvisorKey, config.EnvAdvisorModel, config.EnvAdvisorURL, config.EnvStrict, config.EnvAPIKey} {
		t.Setenv(key, "")
	}
	return &testShop{t: t, db: filepath.Join(t.TempDir(), "shop.db")}
}

// run executes one primecart invocation and returns its stdout.
func (s *testShop) run(args ...string) (string, error) {
	s.t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--db", s.db, "--env-file", ""}, args...))

	err := cmd.Execute()
	return out.String(), err
}

// mustRun fails the test if the invocation fails.
func (s *testShop) mustRun(args ...string) string {
	s.t.Helper()
	out, err := s.run(args...)
	require.NoError(s.t, err, out)
	return out
}

// response mirrors CLIResponse with the payload left raw.
type response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// runJSON executes with --format json and decodes the payload into v.
func (s *testShop) runJSON(v any, args ...string) response {
	s.t.Helper()
	out, _ := s.run(append([]string{"--format", "json"}, args...)...)

	var resp response
	require.NoError(s.t, json.Unmarshal([]byte(out), &resp), out)
	if v != nil && resp.Status == "ok" {
		require.NoError(s.t, json.Unmarshal(resp.Data, v))
	}
	return resp
}

const seedYAML = `products:
  - name: Cashmere Scarf
    price: 50
    category: Accessories
    stock: 12
  - name: Chelsea Boot
    price: 180
    category: Footwear
    rating: 4.6
    stock: 6
  - name: Linen Shirt
    price: 95.5
    category: Men
    stock: 40
`

// seeded logs in as admin and loads seedYAML. Returns the catalog, newest
// first.
func (s *testShop) seeded() []domain.Product {
	s.t.Helper()
	path := filepath.Join(s.t.TempDir(), "seed.yaml")
	require.NoError(s.t, os.WriteFile(path, []byte(seedYAML), 0o644))

	s.mustRun("login", "admin")
	s.mustRun("catalog", "seed", path)

	var products []domain.Product
	resp := s.runJSON(&products, "catalog", "list")
	require.Equal(s.t, "ok", resp.Status)
	require.Len(s.t, products, 3)
	return products
}
