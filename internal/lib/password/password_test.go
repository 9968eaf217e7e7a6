package password

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mousejiggler/jiggler-backend/internal/models"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "regular password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
			wantErr:  false,
		},
		{
			name:     "long password",
			password: "verylongpasswordwithmorethanfiftycharacters",
			wantErr:  false,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Hash(tt.password)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, encoded)

			raw, err := base64.StdEncoding.DecodeString(encoded)
			require.NoError(t, err)
			assert.Len(t, raw, saltSize+hashSize)

			assert.True(t, Verify(tt.password, encoded))
		})
	}
}

func TestHash_DistinctSalts(t *testing.T) {
	first, err := Hash("same_password")
	require.NoError(t, err)
	second, err := Hash("same_password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
	assert.True(t, Verify("same_password", first))
	assert.True(t, Verify("same_password", second))
}

func TestVerify(t *testing.T) {
	encoded, err := Hash("correct_password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		encoded  string
		want     bool
	}{
		{
			name:     "matching password",
			password: "correct_password",
			encoded:  encoded,
			want:     true,
		},
		{
			name:     "wrong password",
			password: "wrong_password",
			encoded:  encoded,
			want:     false,
		},
		{
			name:     "empty password",
			password: "",
			encoded:  encoded,
			want:     false,
		},
		{
			name:     "empty hash",
			password: "correct_password",
			encoded:  "",
			want:     false,
		},
		{
			name:     "not base64",
			password: "correct_password",
			encoded:  "%%%not-base64%%%",
			want:     false,
		},
		{
			name:     "wrong decoded length",
			password: "correct_password",
			encoded:  base64.StdEncoding.EncodeToString([]byte("too short")),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.password, tt.encoded))
		})
	}
}

func TestGenerateRandom(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{name: "default length", length: 12, wantErr: false},
		{name: "minimum length", length: 8, wantErr: false},
		{name: "long", length: 64, wantErr: false},
		{name: "too short", length: 7, wantErr: true},
		{name: "zero", length: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateRandom(tt.length)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.length)
			for _, c := range got {
				assert.Contains(t, passwordChars, string(c))
			}
		})
	}
}

func TestGenerateRandom_Distinct(t *testing.T) {
	first, err := GenerateRandom(16)
	require.NoError(t, err)
	second, err := GenerateRandom(16)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
