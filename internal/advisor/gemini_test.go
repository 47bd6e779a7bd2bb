package advisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/roach88/primecart/internal/domain"
)

// fakeModels records the last request and answers with reply or err.
type fakeModels struct {
	reply  string
	err    error
	model  string
	prompt string
	calls  int
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.prompt = contents[0].Parts[0].Text
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.reply, genai.RoleModel)}},
	}, nil
}

// newGeminiServer answers every generateContent call with reply.
func newGeminiServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]}}]}`, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGemini_Recommend(t *testing.T) {
	fake := &fakeModels{reply: "  Ideal for an evening at the opera.\n"}
	g := newGemini(fake, "")

	text, err := g.Recommend(context.Background(), domain.Product{
		Name: "Silk Gown", Description: "Floor length", Category: "Women",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ideal for an evening at the opera.", text)
	assert.Equal(t, DefaultModel, fake.model)

	for _, want := range []string{
		"fashion stylist assistant for 'PrimeCart'",
		`called "Silk Gown"`,
		"Description: Floor length.",
		"Category: Women.",
		"max 80 words",
	} {
		assert.Contains(t, fake.prompt, want)
	}
}

func TestGemini_Insight(t *testing.T) {
	tests := []struct {
		name      string
		catalog   []domain.Product
		wantText  string
		wantCalls int
	}{
		{"empty catalog skips the service", nil, MsgNoProducts, 0},
		{"names every product", []domain.Product{{Name: "Boot"}, {Name: "Scarf"}}, "- Loafers", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModels{reply: "- Loafers"}
			g := newGemini(fake, "gemini-test")

			text, err := g.Insight(context.Background(), tt.catalog)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantCalls, fake.calls)
			if tt.wantCalls > 0 {
				assert.Equal(t, "gemini-test", fake.model)
				assert.True(t, strings.HasPrefix(fake.prompt,
					"Analyze this product catalog for a luxury e-commerce store: Boot, Scarf.\n"), fake.prompt)
				assert.Contains(t, fake.prompt, "Suggest 3 trending keywords")
			}
		})
	}
}

func TestGemini_ErrorsAreWrapped(t *testing.T) {
	cause := errors.New("quota exceeded")
	g := newGemini(&fakeModels{err: cause}, "")

	_, err := g.Recommend(context.Background(), scarf)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), DefaultModel)
}

func TestGemini_BehindFallback(t *testing.T) {
	ctx := context.Background()
	catalog := []domain.Product{scarf}

	tests := []struct {
		name          string
		fake          *fakeModels
		wantRecommend string
		wantInsight   string
	}{
		{"blank reply", &fakeModels{reply: "  "}, MsgStylistsBusy, MsgAnalysisPending},
		{"service error", &fakeModels{err: errors.New("500")}, MsgRecommendFailed, MsgInsightFailed},
		{"cancelled", &fakeModels{err: context.Canceled}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := WithFallback(newGemini(tt.fake, ""), quietLogger())

			text, err := a.Recommend(ctx, scarf)
			if errors.Is(tt.fake.err, context.Canceled) {
				assert.ErrorIs(t, err, context.Canceled)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRecommend, text)

			text, _ = a.Insight(ctx, catalog)
			assert.Equal(t, tt.wantInsight, text)
		})
	}
}

func TestNewGemini_SendsRequestToBaseURL(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotPath, gotBody = r.URL.Path, string(b)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Pairs with a camel coat."}]}}]}`)
	}))
	t.Cleanup(srv.Close)

	g, err := NewGemini(context.Background(), Settings{Key: "secret", Model: "gemini-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	text, err := g.Recommend(context.Background(), scarf)
	require.NoError(t, err)
	assert.Equal(t, "Pairs with a camel coat.", text)
	assert.Contains(t, gotPath, "gemini-test:generateContent")
	assert.Contains(t, gotBody, "Wool Scarf")
}
