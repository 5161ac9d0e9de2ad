package actions

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mxcd/bumper/internal/gate"
)

// outputBumpPlan renders the dry-run plan
func outputBumpPlan(items []*BumpItem) {
	fmt.Println("\n🔍 DRY RUN - Bump Plan")
	fmt.Println("=======================")

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Dependency", "Current", "→", "Latest", "Type", "Branch", "Plan"})

	creates := 0
	updates := 0
	errors := 0

	for _, item := range items {
		if item.Err != nil {
			errors++
			t.AppendRow(table.Row{
				item.Resolution.Dependency.Display(),
				"-", "", "-", "-", "-",
				fmt.Sprintf("❌ %v", item.Err),
			})
			continue
		}

		outcome := item.Resolution.Outcome
		switch item.Plan {
		case gate.CreateNewPR:
			creates++
		case gate.UpdateExistingPR:
			updates++
		}

		t.AppendRow(table.Row{
			item.Resolution.Dependency.Display(),
			outcome.Original,
			"→",
			outcome.Latest,
			outcome.UpdateType,
			item.BranchName,
			item.Plan.String(),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	fmt.Println()

	fmt.Printf("📊 Summary:\n")
	fmt.Printf("   • Pull requests to create: %d\n", creates)
	fmt.Printf("   • Pull requests to update: %d\n", updates)
	if errors > 0 {
		fmt.Printf("   • Dependencies with errors: %d\n", errors)
	}
	fmt.Println()
	fmt.Println("💡 This is a dry run. Use 'bump' without --dry-run to execute.")
}

// outputBumpResults renders the outcome of an executed bump run
func outputBumpResults(items []*BumpItem) {
	fmt.Println("\n🚀 Bump Results")
	fmt.Println("===============")

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Dependency", "Current", "→", "Latest", "Plan", "Status"})

	for _, item := range items {
		if item.Err != nil {
			t.AppendRow(table.Row{
				item.Resolution.Dependency.Display(),
				"-", "", "-", "-",
				fmt.Sprintf("❌ %v", item.Err),
			})
			continue
		}

		outcome := item.Resolution.Outcome

		status := "✅ Up to date"
		switch item.Plan {
		case gate.CreateNewPR, gate.UpdateExistingPR:
			if item.PRURL != "" {
				status = item.PRURL
			}
		case gate.NoOp:
			if outcome.Changed {
				// Changed but still a no-op means manual commits block the branch
				status = "⚠️  Skipped (manual commits on update branch)"
			}
		}

		t.AppendRow(table.Row{
			item.Resolution.Dependency.Display(),
			outcome.Original,
			"→",
			outcome.Latest,
			item.Plan.String(),
			status,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	fmt.Println()
}
