package editor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

// Op names a change operation
type Op string

// Change operations
const (
	OpSetPersonal    Op = "set_personal"
	OpSetAdditional  Op = "set_additional"
	OpAddItem        Op = "add_item"
	OpUpdateItem     Op = "update_item"
	OpRemoveItem     Op = "remove_item"
	OpMoveItem       Op = "move_item"
	OpAddBullet      Op = "add_bullet"
	OpUpdateBullet   Op = "update_bullet"
	OpRemoveBullet   Op = "remove_bullet"
	OpReplaceContent Op = "replace_content"
	OpSetDisplay     Op = "set_display"
	OpSetTitle       Op = "set_title"
)

// Section names a list of ResumeContent
type Section string

// List sections
const (
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
	SectionReferences     Section = "references"
)

// Move directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Change is a single edit. Which fields are read depends on Op.
type Change struct {
	Op        Op                   `json:"op"`
	Section   Section              `json:"section,omitempty"`
	ID        string               `json:"id,omitempty"`
	BulletID  string               `json:"bulletId,omitempty"`
	Field     string               `json:"field,omitempty"`
	Value     string               `json:"value,omitempty"`
	Direction string               `json:"direction,omitempty"`
	Item      json.RawMessage      `json:"item,omitempty"`
	Content   *types.ResumeContent `json:"content,omitempty"`
	Display   *types.DisplayConfig `json:"display,omitempty"`
}

// SetPersonal builds a change of one personal info field
func SetPersonal(field, value string) Change {
	return Change{Op: OpSetPersonal, Field: field, Value: value}
}

// AddItem builds a change appending item to section
func AddItem(section Section, item any) (Change, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return Change{}, err
	}
	return Change{Op: OpAddItem, Section: section, Item: raw}, nil
}

// ReplaceContent builds a change replacing the whole content
func ReplaceContent(c *types.ResumeContent) Change {
	return Change{Op: OpReplaceContent, Content: c}
}

// touchesContent reports whether the change alters ResumeContent (and so the draft)
func (ch Change) touchesContent() bool {
	return ch.Op != OpSetDisplay && ch.Op != OpSetTitle
}

// applyContent applies a content change to c in place. c must be a private copy.
func applyContent(c *types.ResumeContent, ch Change) error {
	switch ch.Op {
	case OpSetPersonal:
		return setPersonal(&c.PersonalInfo, ch)
	case OpSetAdditional:
		c.AdditionalInformation = ch.Value
		return nil
	case OpAddItem, OpUpdateItem, OpRemoveItem, OpMoveItem:
		return applySection(c, ch)
	case OpAddBullet, OpUpdateBullet, OpRemoveBullet:
		return applyBullet(c, ch)
	case OpReplaceContent:
		if ch.Content == nil {
			return &ChangeError{Op: ch.Op, Message: "content is required"}
		}
		*c = *ch.Content.Clone()
		resume.NormalizeContent(c)
		return nil
	default:
		return &ChangeError{Op: ch.Op, Message: "unknown operation"}
	}
}

func setPersonal(p *types.PersonalInfo, ch Change) error {
	switch strings.ToLower(ch.Field) {
	case "name":
		p.Name = ch.Value
	case "email":
		p.Email = ch.Value
	case "phone":
		p.Phone = ch.Value
	case "location":
		p.Location = ch.Value
	case "website":
		p.Website = ch.Value
	case "summary":
		p.Summary = ch.Value
	default:
		return &ChangeError{Op: ch.Op, Message: fmt.Sprintf("unknown personal field %q", ch.Field)}
	}
	return nil
}

func applySection(c *types.ResumeContent, ch Change) error {
	var err error
	switch ch.Section {
	case SectionExperience:
		err = applyList(&c.Experience, func(x *types.Experience) *string { return &x.ID }, ch)
	case SectionEducation:
		err = applyList(&c.Education, func(x *types.Education) *string { return &x.ID }, ch)
	case SectionSkills:
		err = applyList(&c.Skills, func(x *types.Skill) *string { return &x.ID }, ch)
	case SectionProjects:
		err = applyList(&c.Projects, func(x *types.Project) *string { return &x.ID }, ch)
	case SectionCertifications:
		err = applyList(&c.Certifications, func(x *types.Certification) *string { return &x.ID }, ch)
	case SectionReferences:
		err = applyList(&c.References, func(x *types.Reference) *string { return &x.ID }, ch)
	default:
		return &ChangeError{Op: ch.Op, Message: fmt.Sprintf("unknown section %q", ch.Section)}
	}
	if err != nil {
		return err
	}
	resume.NormalizeContent(c)
	return nil
}

// applyList runs an add/update/remove/move on one list. Ids are assigned afterwards by
// NormalizeContent, which keeps an item's id when it is unique.
func applyList[T any](items *[]T, idOf func(*T) *string, ch Change) error {
	find := func(id string) int {
		for i := range *items {
			if *idOf(&(*items)[i]) == id {
				return i
			}
		}
		return -1
	}

	switch ch.Op {
	case OpAddItem:
		var item T
		if len(ch.Item) > 0 {
			if err := json.Unmarshal(ch.Item, &item); err != nil {
				return &ChangeError{Op: ch.Op, Message: "invalid item", Cause: err}
			}
		}
		*items = append(*items, item)
		return nil

	case OpUpdateItem:
		idx := find(ch.ID)
		if idx < 0 {
			return &ChangeError{Op: ch.Op, Message: ch.ID, Cause: ErrItemNotFound}
		}
		// Decoding onto the existing value only overwrites the fields present in the patch.
		item := (*items)[idx]
		if err := json.Unmarshal(ch.Item, &item); err != nil {
			return &ChangeError{Op: ch.Op, Message: "invalid item", Cause: err}
		}
		*idOf(&item) = ch.ID
		(*items)[idx] = item
		return nil

	case OpRemoveItem:
		idx := find(ch.ID)
		if idx < 0 {
			return &ChangeError{Op: ch.Op, Message: ch.ID, Cause: ErrItemNotFound}
		}
		*items = append((*items)[:idx], (*items)[idx+1:]...)
		return nil

	case OpMoveItem:
		idx := find(ch.ID)
		if idx < 0 {
			return &ChangeError{Op: ch.Op, Message: ch.ID, Cause: ErrItemNotFound}
		}
		target := idx
		switch ch.Direction {
		case DirectionUp:
			target--
		case DirectionDown:
			target++
		default:
			return &ChangeError{Op: ch.Op, Message: fmt.Sprintf("unknown direction %q", ch.Direction)}
		}
		if target < 0 || target >= len(*items) {
			return nil
		}
		(*items)[idx], (*items)[target] = (*items)[target], (*items)[idx]
		return nil
	}
	return &ChangeError{Op: ch.Op, Message: "not a list operation"}
}

func applyBullet(c *types.ResumeContent, ch Change) error {
	idx := -1
	for i := range c.Experience {
		if c.Experience[i].ID == ch.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &ChangeError{Op: ch.Op, Message: "experience " + ch.ID, Cause: ErrItemNotFound}
	}
	exp := &c.Experience[idx]

	if ch.Op == OpAddBullet {
		exp.Bullets = append(exp.Bullets, types.BulletPoint{ID: resume.NewID(), Text: ch.Value})
		resume.NormalizeContent(c)
		return nil
	}

	b := -1
	for i := range exp.Bullets {
		if exp.Bullets[i].ID == ch.BulletID {
			b = i
			break
		}
	}
	if b < 0 {
		return &ChangeError{Op: ch.Op, Message: "bullet " + ch.BulletID, Cause: ErrItemNotFound}
	}

	if ch.Op == OpUpdateBullet {
		exp.Bullets[b].Text = ch.Value
	} else {
		exp.Bullets = append(exp.Bullets[:b], exp.Bullets[b+1:]...)
	}
	return nil
}
