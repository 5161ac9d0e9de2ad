package github

import (
	"testing"
)

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		name      string
		uri       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "public github - basic",
			uri:       "https://github.com/owner/repo",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "public github - with .git suffix",
			uri:       "https://github.com/owner/repo.git",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "public github api - repos path",
			uri:       "https://api.github.com/repos/owner/repo",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "public github api - with releases/latest",
			uri:       "https://api.github.com/repos/owner/repo/releases/latest",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "github enterprise - basic",
			uri:       "https://github.enterprise.com/owner/repo",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:      "github enterprise api - with api/v3",
			uri:       "https://github.enterprise.com/api/v3/repos/owner/repo",
			wantOwner: "owner",
			wantRepo:  "repo",
		},
		{
			name:    "empty uri",
			uri:     "",
			wantErr: true,
		},
		{
			name:    "no path",
			uri:     "https://github.com",
			wantErr: true,
		},
		{
			name:    "missing repo",
			uri:     "https://github.com/owner",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseRepositoryURL(tt.uri)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if info.Owner != tt.wantOwner {
				t.Errorf("Expected owner %q, got %q", tt.wantOwner, info.Owner)
			}
			if info.Repo != tt.wantRepo {
				t.Errorf("Expected repo %q, got %q", tt.wantRepo, info.Repo)
			}
		})
	}
}

func TestBuildAPIURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		expected string
	}{
		{
			name:     "empty base url defaults to github.com",
			baseURL:  "",
			expected: "https://api.github.com",
		},
		{
			name:     "enterprise base url gets api/v3",
			baseURL:  "https://github.enterprise.com",
			expected: "https://github.enterprise.com/api/v3",
		},
		{
			name:     "enterprise base url with trailing slash",
			baseURL:  "https://github.enterprise.com/",
			expected: "https://github.enterprise.com/api/v3",
		},
		{
			name:     "base url already containing api/v3",
			baseURL:  "https://github.enterprise.com/api/v3",
			expected: "https://github.enterprise.com/api/v3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildAPIURL(tt.baseURL); got != tt.expected {
				t.Errorf("BuildAPIURL(%q) = %q, expected %q", tt.baseURL, got, tt.expected)
			}
		})
	}
}
