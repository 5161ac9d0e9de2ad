package docker

import (
	"testing"
)

func TestParseImageURL(t *testing.T) {
	tests := []struct {
		name         string
		uri          string
		wantRegistry string
		wantRepo     string
		wantTag      string
		wantErr      bool
	}{
		{
			name:         "official image",
			uri:          "nginx",
			wantRegistry: "",
			wantRepo:     "library/nginx",
		},
		{
			name:         "official image with tag",
			uri:          "nginx:1.21",
			wantRegistry: "",
			wantRepo:     "library/nginx",
			wantTag:      "1.21",
		},
		{
			name:         "docker hub namespace",
			uri:          "myorg/myapp",
			wantRegistry: "",
			wantRepo:     "myorg/myapp",
		},
		{
			name:         "explicit docker.io registry",
			uri:          "docker.io/myorg/myapp",
			wantRegistry: "",
			wantRepo:     "myorg/myapp",
		},
		{
			name:         "gcr registry",
			uri:          "gcr.io/myproject/myapp",
			wantRegistry: "gcr.io",
			wantRepo:     "myproject/myapp",
		},
		{
			name:         "ghcr registry with tag",
			uri:          "ghcr.io/myorg/myapp:v1.2.3",
			wantRegistry: "ghcr.io",
			wantRepo:     "myorg/myapp",
			wantTag:      "v1.2.3",
		},
		{
			name:         "custom registry with port",
			uri:          "registry.example.com:5000/myorg/myapp",
			wantRegistry: "registry.example.com:5000",
			wantRepo:     "myorg/myapp",
		},
		{
			name:         "docker scheme prefix",
			uri:          "docker://ghcr.io/myorg/myapp",
			wantRegistry: "ghcr.io",
			wantRepo:     "myorg/myapp",
		},
		{
			name:         "deep repository path",
			uri:          "registry.example.com/team/group/app",
			wantRegistry: "registry.example.com",
			wantRepo:     "team/group/app",
		},
		{
			name:    "empty uri",
			uri:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseImageURL(tt.uri)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if info.Registry != tt.wantRegistry {
				t.Errorf("Expected registry %q, got %q", tt.wantRegistry, info.Registry)
			}
			if info.Repository != tt.wantRepo {
				t.Errorf("Expected repository %q, got %q", tt.wantRepo, info.Repository)
			}
			if info.Tag != tt.wantTag {
				t.Errorf("Expected tag %q, got %q", tt.wantTag, info.Tag)
			}
		})
	}
}

func TestBuildRegistryURL(t *testing.T) {
	tests := []struct {
		name          string
		baseURL       string
		imageRegistry string
		expected      string
	}{
		{
			name:     "defaults to docker hub",
			expected: "https://registry.hub.docker.com",
		},
		{
			name:          "image registry without scheme",
			imageRegistry: "ghcr.io",
			expected:      "https://ghcr.io",
		},
		{
			name:          "explicit base url wins",
			baseURL:       "https://mirror.example.com/",
			imageRegistry: "ghcr.io",
			expected:      "https://mirror.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildRegistryURL(tt.baseURL, tt.imageRegistry); got != tt.expected {
				t.Errorf("BuildRegistryURL(%q, %q) = %q, expected %q", tt.baseURL, tt.imageRegistry, got, tt.expected)
			}
		})
	}
}

func TestGetNextPageURL(t *testing.T) {
	tests := []struct {
		name       string
		linkHeader string
		expected   string
	}{
		{
			name:       "empty header",
			linkHeader: "",
			expected:   "",
		},
		{
			name:       "relative next link",
			linkHeader: `</v2/myorg/myapp/tags/list?n=100&last=v1.2.3>; rel="next"`,
			expected:   "https://ghcr.io/v2/myorg/myapp/tags/list?n=100&last=v1.2.3",
		},
		{
			name:       "absolute next link",
			linkHeader: `<https://ghcr.io/v2/myorg/myapp/tags/list?last=abc>; rel="next"`,
			expected:   "https://ghcr.io/v2/myorg/myapp/tags/list?last=abc",
		},
		{
			name:       "no next relation",
			linkHeader: `</v2/myorg/myapp/tags/list>; rel="prev"`,
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getNextPageURL(tt.linkHeader, "https://ghcr.io"); got != tt.expected {
				t.Errorf("getNextPageURL(%q) = %q, expected %q", tt.linkHeader, got, tt.expected)
			}
		})
	}
}
