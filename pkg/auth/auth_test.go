package auth

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metamem "filevault/pkg/metadata/memory"
	sessmem "filevault/pkg/session/memory"
)

func TestDigest(t *testing.T) {
	// Deterministic, 40 hex chars, known vector.
	assert.Equal(t, Digest("pw"), Digest("pw"))
	assert.Len(t, Digest("anything"), 40)
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", Digest("hello"))
	assert.NotEqual(t, Digest("hello"), Digest("Hello"))
}

func TestDecodeBasic(t *testing.T) {
	encode := func(s string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(s))
	}

	tests := []struct {
		name         string
		header       string
		wantEmail    string
		wantPassword string
		wantErr      bool
	}{
		{name: "valid", header: encode("a@b.com:pw"), wantEmail: "a@b.com", wantPassword: "pw"},
		{name: "password_with_colon", header: encode("a@b.com:p:w"), wantEmail: "a@b.com", wantPassword: "p:w"},
		{name: "empty_header", header: "", wantErr: true},
		{name: "missing_prefix", header: base64.StdEncoding.EncodeToString([]byte("a@b.com:pw")), wantErr: true},
		{name: "wrong_scheme", header: "Bearer abc", wantErr: true},
		{name: "invalid_base64", header: "Basic !!!not-base64!!!", wantErr: true},
		{name: "missing_colon", header: encode("a@b.com"), wantErr: true},
		{name: "empty_email", header: encode(":pw"), wantErr: true},
		{name: "empty_password", header: encode("a@b.com:"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, password, err := DecodeBasic(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, email)
			assert.Equal(t, tt.wantPassword, password)
		})
	}
}

// TestGate_UserFromBasic_Uniform verifies that every malformed or wrong
// credential yields exactly ErrUnauthorized with no distinguishing detail.
func TestGate_UserFromBasic_Uniform(t *testing.T) {
	ctx := context.Background()
	meta := metamem.NewMemoryMetadataStore()
	gate := &Gate{Metadata: meta, Sessions: sessmem.NewMemorySessionStore()}

	registered, err := meta.CreateUser(ctx, "a@b.com", Digest("pw"))
	require.NoError(t, err)

	encode := func(s string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(s))
	}

	user, err := gate.UserFromBasic(ctx, encode("a@b.com:pw"))
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	failures := []struct {
		name   string
		header string
	}{
		{name: "absent_header", header: ""},
		{name: "not_basic", header: "Token abc"},
		{name: "invalid_base64", header: "Basic %%%"},
		{name: "missing_colon", header: encode("a@b.com")},
		{name: "unknown_email", header: encode("x@y.com:pw")},
		{name: "wrong_password", header: encode("a@b.com:nope")},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gate.UserFromBasic(ctx, tt.header)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestGate_UserIDFromToken(t *testing.T) {
	ctx := context.Background()
	sessions := sessmem.NewMemorySessionStore()
	gate := &Gate{Metadata: metamem.NewMemoryMetadataStore(), Sessions: sessions}

	token, err := sessions.Issue(ctx, "user-1")
	require.NoError(t, err)

	userID, err := gate.UserIDFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = gate.UserIDFromToken(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = gate.UserIDFromToken(ctx, "unknown")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, sessions.Revoke(ctx, token))
	_, err = gate.UserIDFromToken(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
