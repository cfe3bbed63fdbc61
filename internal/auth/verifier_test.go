package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbridge.io/bookbridge/internal/domain"
)

var testKey = []byte("test-signing-key-1234567890123456")

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"case-insensitive scheme", "bearer abc", "abc", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"no token", "Bearer ", "", true},
		{"scheme only", "Bearer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJWTVerifier_Verify_Success(t *testing.T) {
	token, err := SignToken(testKey, "bookbridge", domain.Claims{
		Email:       "alice@example.com",
		SubjectID:   "uid-1",
		DisplayName: "Alice",
		PhotoURL:    "https://img.example.com/alice.png",
	}, time.Hour)
	require.NoError(t, err)

	v := NewJWTVerifier(testKey, nil, "bookbridge")
	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "uid-1", claims.SubjectID)
	assert.Equal(t, "Alice", claims.DisplayName)
}

func TestJWTVerifier_Verify_Expired(t *testing.T) {
	token, err := SignToken(testKey, "bookbridge", domain.Claims{Email: "a@b.c"}, -time.Minute)
	require.NoError(t, err)

	v := NewJWTVerifier(testKey, nil, "bookbridge")
	_, err = v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTVerifier_Verify_WrongIssuer(t *testing.T) {
	token, err := SignToken(testKey, "someone-else", domain.Claims{Email: "a@b.c"}, time.Hour)
	require.NoError(t, err)

	v := NewJWTVerifier(testKey, nil, "bookbridge")
	_, err = v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTVerifier_Verify_KeyRotation(t *testing.T) {
	oldKey := []byte("old-key-12345678901234567890123456")
	token, err := SignToken(oldKey, "bookbridge", domain.Claims{Email: "a@b.c"}, time.Hour)
	require.NoError(t, err)

	v := NewJWTVerifier(testKey, [][]byte{oldKey}, "bookbridge")
	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestJWTVerifier_Verify_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{
		Email: "a@b.c",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bookbridge",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	v := NewJWTVerifier(testKey, nil, "bookbridge")
	_, err = v.Verify(context.Background(), token)
	require.Error(t, err)
}

func TestJWTVerifier_Verify_MissingEmail(t *testing.T) {
	token, err := SignToken(testKey, "bookbridge", domain.Claims{SubjectID: "uid-1"}, time.Hour)
	require.NoError(t, err)

	v := NewJWTVerifier(testKey, nil, "bookbridge")
	_, err = v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestJWTVerifier_Verify_Garbage(t *testing.T) {
	v := NewJWTVerifier(testKey, nil, "bookbridge")
	_, err := v.Verify(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
