package auth

import (
	"net/http/httptest"
	"testing"
)

func TestExtractTokenFromHeader(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Token abc":      "abc",
		"token  abc ":    "abc",
		"Bearer eyJ.x.y": "eyJ.x.y",
		"bearer xyz":     "xyz",
		"Basic dXNlcg==": "",
		"":               "",
	}
	for header, want := range cases {
		if got := ExtractTokenFromHeader(header); got != want {
			t.Fatalf("header %q: expected %q, got %q", header, want, got)
		}
	}
}

func TestExtractTokenFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Token drf")
	if got := ExtractToken(req); got != "drf" {
		t.Fatalf("expected drf, got %q", got)
	}
	if got := ExtractToken(nil); got != "" {
		t.Fatalf("expected empty token for nil request, got %q", got)
	}
}
