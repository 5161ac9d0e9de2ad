package configuration

type Config struct {
	Providers    []*Provider   `yaml:"providers"`
	Dependencies []*Dependency `yaml:"dependencies"`
	Changelog    *Changelog    `yaml:"changelog,omitempty"`
	Actor        *Actor        `yaml:"actor,omitempty"`
}

type ProviderType string

const (
	ProviderTypeGitHub ProviderType = "github"
	ProviderTypeDocker ProviderType = "docker"
)

type ProviderAuthType string

const (
	ProviderAuthTypeNone  ProviderAuthType = "none"
	ProviderAuthTypeBasic ProviderAuthType = "basic"
	ProviderAuthTypeToken ProviderAuthType = "token"
)

type Provider struct {
	Name     string           `yaml:"name"`
	Type     ProviderType     `yaml:"type"`
	BaseUrl  string           `yaml:"baseUrl,omitempty"`
	AuthType ProviderAuthType `yaml:"authType,omitempty"`
	Username string           `yaml:"username,omitempty"`
	Password string           `yaml:"password,omitempty"`
	Token    string           `yaml:"token,omitempty"`
}

type SourceType string

const (
	SourceTypeGitTag      SourceType = "git-tag"
	SourceTypeGitRelease  SourceType = "git-release"
	SourceTypeDockerImage SourceType = "docker-image"
)

type TargetType string

const (
	TargetTypeSubmodule   TargetType = "submodule"
	TargetTypeVersionFile TargetType = "version-file"
	TargetTypeScriptTag   TargetType = "script-tag"
	TargetTypeYamlField   TargetType = "yaml-field"
)

// Ordering selects the total order used to pick the latest candidate tag.
// It must be configured explicitly per dependency; an unknown value is a
// validation error, never silently replaced by a default comparison.
type Ordering string

const (
	OrderingSemantic     Ordering = "semantic"
	OrderingAlphabetical Ordering = "alphabetical"
)

// PRStrategy selects the branch naming scheme for bump pull requests.
// "update" reuses one stable branch per dependency, "create" opens a fresh
// branch (and therefore a fresh PR) per version.
type PRStrategy string

const (
	PRStrategyCreate PRStrategy = "create"
	PRStrategyUpdate PRStrategy = "update"
)

type Dependency struct {
	Name             string     `yaml:"name"`
	DisplayName      string     `yaml:"displayName,omitempty"`
	Provider         string     `yaml:"provider"`
	URI              string     `yaml:"uri"`
	Source           SourceType `yaml:"source"`
	Target           TargetType `yaml:"target"`
	File             string     `yaml:"file"`                       // Target file, or submodule path
	ScriptTagPattern string     `yaml:"scriptTagPattern,omitempty"` // Regex with one capture group (script-tag)
	YamlPath         string     `yaml:"yamlPath,omitempty"`         // Dot notation path (yaml-field)
	TagPattern       string     `yaml:"tagPattern,omitempty"`       // Regex to match eligible tags
	ExcludePattern   string     `yaml:"excludePattern,omitempty"`   // Regex to exclude unwanted tags
	TagLimit         int        `yaml:"tagLimit,omitempty"`         // Maximum number of tags to fetch from the provider (before filtering)
	Ordering         Ordering   `yaml:"ordering"`
	ChangelogSection string     `yaml:"changelogSection,omitempty"`
	PRStrategy       PRStrategy `yaml:"prStrategy,omitempty"`
	Labels           []string   `yaml:"labels,omitempty"`

	// Candidates is populated by the scraper, not from the config file
	Candidates []*Candidate `yaml:"candidates,omitempty"`
}

// Candidate is a single tag fetched from a provider, before filtering
// and ordering
type Candidate struct {
	Tag  string `yaml:"tag"`
	Info string `yaml:"info,omitempty"` // e.g. abbreviated commit SHA or image digest
}

type Changelog struct {
	File              string `yaml:"file"`
	UnreleasedHeading string `yaml:"unreleasedHeading,omitempty"`
}

// Actor is the identity used for bump commits and pull requests
type Actor struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Token    string `yaml:"token,omitempty"`
}

// Display returns the human readable dependency name used in PR titles and
// changelog entries
func (d *Dependency) Display() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}

// Strategy returns the configured PR strategy, defaulting to "update"
func (d *Dependency) Strategy() PRStrategy {
	if d.PRStrategy == "" {
		return PRStrategyUpdate
	}
	return d.PRStrategy
}
