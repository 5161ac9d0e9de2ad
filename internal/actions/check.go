package actions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mxcd/bumper/internal/resolver"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type CheckOptions struct {
	ConfigPath   string
	RepoPath     string
	OutputFormat string
	Limit        int
	Only         string
}

// CheckItem is the reportable result for a single dependency
type CheckItem struct {
	Dependency     string              `json:"dependency" yaml:"dependency"`
	File           string              `json:"file" yaml:"file"`
	CurrentVersion string              `json:"currentVersion" yaml:"currentVersion"`
	LatestVersion  string              `json:"latestVersion" yaml:"latestVersion"`
	UpdateType     resolver.UpdateType `json:"updateType" yaml:"updateType"`
	NeedsUpdate    bool                `json:"needsUpdate" yaml:"needsUpdate"`
	Error          string              `json:"error,omitempty" yaml:"error,omitempty"`
}

type CheckResult struct {
	Items      []*CheckItem
	HasUpdates bool
}

// Check resolves every configured dependency against its pinned version
// and reports which ones have a newer tag available. It performs no git
// operations and writes nothing.
func Check(options *CheckOptions) (*CheckResult, error) {
	config, err := loadAndValidate(options.ConfigPath)
	if err != nil {
		return nil, err
	}

	resolutions := resolveAll(config, options.RepoPath, options.Limit)
	resolutions = filterResolutions(resolutions, options.Only)

	result := &CheckResult{
		Items: make([]*CheckItem, 0, len(resolutions)),
	}

	for _, resolution := range resolutions {
		item := &CheckItem{
			Dependency: resolution.Dependency.Display(),
			File:       resolution.Dependency.File,
		}

		if resolution.Err != nil {
			item.Error = resolution.Err.Error()
		} else {
			item.CurrentVersion = resolution.Outcome.Original
			item.LatestVersion = resolution.Outcome.Latest
			item.UpdateType = resolution.Outcome.UpdateType
			item.NeedsUpdate = resolution.Outcome.Changed
			if item.NeedsUpdate {
				result.HasUpdates = true
			}
		}

		result.Items = append(result.Items, item)
	}

	if err := outputCheckResult(result, options.OutputFormat); err != nil {
		log.Error().Err(err).Msg("Failed to output check results")
		return nil, fmt.Errorf("output error: %w", err)
	}

	if result.HasUpdates {
		log.Info().Msg("Updates are available")
	} else {
		log.Info().Msg("All dependencies are up to date")
	}

	return result, nil
}

func outputCheckResult(result *CheckResult, format string) error {
	switch format {
	case "table":
		return outputCheckTable(result)
	case "json":
		return outputCheckJSON(result)
	case "yaml":
		return outputCheckYAML(result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputCheckTable(result *CheckResult) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("🔍 Dependency Check")
	t.AppendHeader(table.Row{"Dependency", "File", "Current", "Latest", "Update Type", "Status"})

	updates := 0
	errors := 0

	for _, item := range result.Items {
		if item.Error != "" {
			errors++
			t.AppendRow(table.Row{
				item.Dependency,
				item.File,
				"-",
				"-",
				"-",
				fmt.Sprintf("❌ Error: %s", item.Error),
			})
			continue
		}

		status := "✅ Up to date"
		if item.NeedsUpdate {
			updates++
			status = fmt.Sprintf("🔄 Update available (%s)", item.UpdateType)
		}

		t.AppendRow(table.Row{
			item.Dependency,
			item.File,
			item.CurrentVersion,
			item.LatestVersion,
			item.UpdateType,
			status,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	fmt.Println()

	if errors > 0 {
		fmt.Printf("⚠️  Total: %d dependency(ies) with errors\n", errors)
	}
	if updates > 0 {
		fmt.Printf("🔄 Total: %d dependency(ies) need updating\n", updates)
	} else {
		fmt.Println("✅ All dependencies are up to date")
	}

	return nil
}

func outputCheckJSON(result *CheckResult) error {
	output := map[string]interface{}{
		"hasUpdates": result.HasUpdates,
		"results":    result.Items,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputCheckYAML(result *CheckResult) error {
	output := map[string]interface{}{
		"hasUpdates": result.HasUpdates,
		"results":    result.Items,
	}
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	return encoder.Encode(output)
}
