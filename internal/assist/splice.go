package assist

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/types"
)

// ApplySummary returns the change that replaces the summary with a generated one
func ApplySummary(resp *types.SummaryResponse) editor.Change {
	return editor.SetPersonal("summary", resp.Summary)
}

// ApplyBullets returns changes appending each generated bullet to the experience entry
func ApplyBullets(experienceID string, resp *types.BulletsResponse) []editor.Change {
	changes := make([]editor.Change, 0, len(resp.Bullets))
	for _, b := range resp.Bullets {
		if types.Blank(b) {
			continue
		}
		changes = append(changes, editor.Change{Op: editor.OpAddBullet, ID: experienceID, Value: b})
	}
	return changes
}

// ApplyRewrite returns the change that replaces one bullet with its rewritten text
func ApplyRewrite(experienceID, bulletID string, resp *types.RewriteResponse) editor.Change {
	return editor.Change{Op: editor.OpUpdateBullet, ID: experienceID, BulletID: bulletID, Value: resp.Text}
}

// ApplySkills returns changes adding the suggested skills that content does not list yet
func ApplySkills(content *types.ResumeContent, resp *types.SkillsResponse) ([]editor.Change, error) {
	var existing []string
	if content != nil {
		for _, s := range content.Skills {
			existing = append(existing, s.Name)
		}
	}

	var changes []editor.Change
	for _, name := range newSkills(existing, resp.Skills) {
		ch, err := editor.AddItem(editor.SectionSkills, types.Skill{Name: strings.TrimSpace(name)})
		if err != nil {
			return nil, err
		}
		changes = append(changes, ch)
	}
	return changes, nil
}

// ApplyExtracted returns the change that replaces the whole content with extracted content
func ApplyExtracted(content *types.ResumeContent) editor.Change {
	return editor.ReplaceContent(content)
}
