package config

import (
	"testing"
)

func TestParseJWKSEndpoints(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "empty",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "single pair",
			input: "https://id.example.com=https://id.example.com/.well-known/jwks.json",
			want: map[string]string{
				"https://id.example.com": "https://id.example.com/.well-known/jwks.json",
			},
		},
		{
			name:  "multiple pairs with whitespace",
			input: "https://a.example.com=https://a.example.com/jwks, https://b.example.com=https://b.example.com/jwks",
			want: map[string]string{
				"https://a.example.com": "https://a.example.com/jwks",
				"https://b.example.com": "https://b.example.com/jwks",
			},
		},
		{
			name:  "malformed pair skipped",
			input: "no-equals-sign,https://a.example.com=https://a.example.com/jwks",
			want: map[string]string{
				"https://a.example.com": "https://a.example.com/jwks",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseJWKSEndpoints(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d endpoints, want %d: %v", len(got), len(tt.want), got)
			}
			for issuer, url := range tt.want {
				if got[issuer] != url {
					t.Errorf("endpoint for %q = %q, want %q", issuer, got[issuer], url)
				}
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "fleetlens",
		Password: "s3cret",
		Database: "fleetlens_engine",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=fleetlens password=s3cret dbname=fleetlens_engine sslmode=require"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}
