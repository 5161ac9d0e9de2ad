package changelog

import (
	"fmt"
	"os"
	"strings"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"
)

const defaultUnreleasedHeading = "## [Unreleased]"

// Changelog appends bump entries to a keep-a-changelog style file under
// the unreleased heading
type Changelog struct {
	config *configuration.Changelog
}

// New creates a new changelog writer
func New(config *configuration.Changelog) *Changelog {
	return &Changelog{
		config: config,
	}
}

// unreleasedHeading returns the configured unreleased heading or the default
func (c *Changelog) unreleasedHeading() string {
	if c.config.UnreleasedHeading != "" {
		return c.config.UnreleasedHeading
	}
	return defaultUnreleasedHeading
}

// Append adds an entry line to the given section under the unreleased
// heading. The unreleased heading and the section are created when
// missing. Appending an entry that already exists in the section is a
// no-op, so re-running a bump never duplicates lines.
func (c *Changelog) Append(section string, entry string) error {
	content, err := c.readOrInit()
	if err != nil {
		return err
	}

	entryLine := "- " + entry
	lines := strings.Split(content, "\n")

	unreleasedIdx := findLine(lines, c.unreleasedHeading())
	if unreleasedIdx == -1 {
		// No unreleased heading yet, put one at the top of the file
		heading := []string{c.unreleasedHeading(), ""}
		lines = append(heading, lines...)
		unreleasedIdx = 0
	}

	// The unreleased block ends at the next release heading
	blockEnd := len(lines)
	for i := unreleasedIdx + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## ") {
			blockEnd = i
			break
		}
	}

	sectionHeading := "### " + section
	sectionIdx := -1
	for i := unreleasedIdx + 1; i < blockEnd; i++ {
		if strings.TrimSpace(lines[i]) == sectionHeading {
			sectionIdx = i
			break
		}
	}

	if sectionIdx == -1 {
		// Insert a new section at the end of the unreleased block
		insertion := []string{sectionHeading, entryLine, ""}
		lines = insertLines(lines, blockEnd, insertion)
		return c.write(lines)
	}

	// The section ends at the next heading or the end of the block
	sectionEnd := blockEnd
	for i := sectionIdx + 1; i < blockEnd; i++ {
		if strings.HasPrefix(lines[i], "#") {
			sectionEnd = i
			break
		}
	}

	// Already recorded, nothing to do
	for i := sectionIdx + 1; i < sectionEnd; i++ {
		if strings.TrimSpace(lines[i]) == entryLine {
			log.Debug().
				Str("file", c.config.File).
				Str("entry", entry).
				Msg("Changelog entry already present, skipping")
			return nil
		}
	}

	// Insert after the last entry line of the section
	insertAt := sectionIdx + 1
	for i := sectionIdx + 1; i < sectionEnd; i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "- ") {
			insertAt = i + 1
		}
	}

	lines = insertLines(lines, insertAt, []string{entryLine})
	return c.write(lines)
}

// readOrInit reads the changelog file, creating a minimal one when it
// does not exist yet
func (c *Changelog) readOrInit() (string, error) {
	content, err := os.ReadFile(c.config.File)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("file", c.config.File).Msg("Changelog file does not exist, creating it")
			return "# Changelog\n\n" + c.unreleasedHeading() + "\n", nil
		}
		return "", fmt.Errorf("failed to read changelog %s: %w", c.config.File, err)
	}
	return string(content), nil
}

func (c *Changelog) write(lines []string) error {
	content := strings.Join(lines, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(c.config.File, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write changelog %s: %w", c.config.File, err)
	}
	return nil
}

func findLine(lines []string, target string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) == target {
			return i
		}
	}
	return -1
}

func insertLines(lines []string, index int, insertion []string) []string {
	result := make([]string, 0, len(lines)+len(insertion))
	result = append(result, lines[:index]...)
	result = append(result, insertion...)
	result = append(result, lines[index:]...)
	return result
}
