package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImpactDevelopment/impact-cli/internal/config"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

func newTestResolver(primary, fallback string) *MinecraftResolver {
	cfg := config.Default()
	cfg.MinecraftAPIURL = primary + "/uuid/"
	cfg.MinecraftFallback = fallback + "/profile/"
	return NewMinecraftResolver(cfg)
}

func TestNormalizeUUID(t *testing.T) {
	const want = "069a79f4-44e9-4726-a5be-fca90e38aaf5"

	tests := []struct {
		name  string
		input string
	}{
		{"no hyphens", "069a79f444e94726a5befca90e38aaf5"},
		{"already hyphenated", "069a79f4-44e9-4726-a5be-fca90e38aaf5"},
		{"hyphens in wrong places", "069a-79f444e94726a5befca90e38aa-f5"},
		{"surrounding whitespace", "  069a79f444e94726a5befca90e38aaf5 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUUID(tt.input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalizeUUIDIdempotent(t *testing.T) {
	once, err := NormalizeUUID("069a79f444e94726a5befca90e38aaf5")
	require.NoError(t, err)

	twice, err := NormalizeUUID(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizeUUIDRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "null", "notch", "069a79f444e94726a5befca90e38aaf5ff", "zzza79f444e94726a5befca90e38aaf5"} {
		_, err := NormalizeUUID(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestLookupPrimarySuccess(t *testing.T) {
	var fallbackCalled bool

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch","status":"OK"}`))
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackCalled = true
	}))
	defer fallback.Close()

	r := newTestResolver(primary.URL, fallback.URL)
	profile, err := r.Lookup(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Equal(t, "069a79f4-44e9-4726-a5be-fca90e38aaf5", profile.ID)
	assert.Equal(t, "Notch", profile.Name)
	assert.False(t, fallbackCalled, "fallback should not be tried when the primary succeeds")
}

func TestLookupFallsBackOnPrimaryFailure(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`))
	}))
	defer fallback.Close()

	r := newTestResolver(primary.URL, fallback.URL)
	profile, err := r.Lookup(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Equal(t, "069a79f4-44e9-4726-a5be-fca90e38aaf5", profile.ID)
}

func TestLookupFallsBackOnBadStatusField(t *testing.T) {
	// MineTools reports failure in-band: 200 with a non-ok status field.
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":null,"name":null,"status":"ERR"}`))
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`))
	}))
	defer fallback.Close()

	r := newTestResolver(primary.URL, fallback.URL)
	profile, err := r.Lookup(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Equal(t, "Notch", profile.Name)
}

func TestLookupBothFailIsBusinessFailure(t *testing.T) {
	noUser := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"null","name":null}`))
	})
	primary := httptest.NewServer(noUser)
	defer primary.Close()
	fallback := httptest.NewServer(noUser)
	defer fallback.Close()

	r := newTestResolver(primary.URL, fallback.URL)
	_, err := r.Lookup(context.Background(), "nosuchplayer")
	require.Error(t, err)

	e := output.AsError(err)
	assert.Equal(t, output.CodeNotFound, e.Code)
	assert.Equal(t, "No user found", e.Message)
}

func TestLookupBothUnreachableIsTransportFailure(t *testing.T) {
	// Point both providers at a closed port.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	r := newTestResolver(dead.URL, dead.URL)
	_, err := r.Lookup(context.Background(), "Notch")
	require.Error(t, err)
	assert.Equal(t, output.CodeNetwork, output.AsError(err).Code)
}

func TestLookupMalformedBodyFallsBack(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!doctype html>`))
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`))
	}))
	defer fallback.Close()

	r := newTestResolver(primary.URL, fallback.URL)
	profile, err := r.Lookup(context.Background(), "Notch")
	require.NoError(t, err)
	assert.Equal(t, "Notch", profile.Name)
}

func TestLookupEmptyQuery(t *testing.T) {
	r := newTestResolver("http://127.0.0.1:1", "http://127.0.0.1:1")
	_, err := r.Lookup(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, output.CodeUsage, output.AsError(err).Code)
}
