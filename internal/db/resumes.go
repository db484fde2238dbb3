package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultListLimit caps ListResumes when no limit is given
const DefaultListLimit = 50

func encodeDocument(content *types.ResumeContent, display types.DisplayConfig) ([]byte, []byte, error) {
	if content == nil {
		content = types.NewResumeContent()
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal content: %w", err)
	}
	displayJSON, err := json.Marshal(display)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal display: %w", err)
	}
	return contentJSON, displayJSON, nil
}

// scanResume decodes a resume row. Stored documents are validated like any other input,
// so a row that no longer conforms loads as empty content instead of failing.
func scanResume(row pgx.Row) (*types.Resume, error) {
	var r types.Resume
	var contentJSON, displayJSON []byte
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &contentJSON, &displayJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	content, _ := resume.ContentOrEmpty(contentJSON)
	r.Content = *content
	r.Display = resume.ValidateDisplayConfig(displayJSON)
	return &r, nil
}

// CreateResume inserts a resume for the user
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title string, content *types.ResumeContent, display types.DisplayConfig) (*types.Resume, error) {
	contentJSON, displayJSON, err := encodeDocument(content, display)
	if err != nil {
		return nil, err
	}
	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, content, display)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, title, content, display, created_at, updated_at`,
		userID, title, contentJSON, displayJSON,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// GetResume retrieves a resume owned by the user. Returns nil, nil when not found.
func (db *DB) GetResume(ctx context.Context, userID, resumeID uuid.UUID) (*types.Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, display, created_at, updated_at
		 FROM resumes WHERE id = $1 AND user_id = $2`,
		resumeID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// UpdateResume overwrites a resume owned by the user. Returns nil, nil when not found.
func (db *DB) UpdateResume(ctx context.Context, userID, resumeID uuid.UUID, title string, content *types.ResumeContent, display types.DisplayConfig) (*types.Resume, error) {
	contentJSON, displayJSON, err := encodeDocument(content, display)
	if err != nil {
		return nil, err
	}
	r, err := scanResume(db.pool.QueryRow(ctx,
		`UPDATE resumes SET title = $3, content = $4, display = $5, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, title, content, display, created_at, updated_at`,
		resumeID, userID, title, contentJSON, displayJSON,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return r, nil
}

// ListResumes returns the user's resumes, most recently updated first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID, limit int) ([]types.ResumeSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, COALESCE(display->>'template', ''), created_at, updated_at
		 FROM resumes WHERE user_id = $1
		 ORDER BY updated_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	summaries := []types.ResumeSummary{}
	for rows.Next() {
		var s types.ResumeSummary
		var template string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&s.ID, &s.Title, &template, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		s.Template = resume.ResolveDisplayConfig(types.DisplayConfig{Template: types.TemplateName(template)}).Template
		s.CreatedAt, s.UpdatedAt = createdAt, updatedAt
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return summaries, nil
}

// DeleteResume deletes a resume owned by the user. It reports whether a row was deleted.
func (db *DB) DeleteResume(ctx context.Context, userID, resumeID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, resumeID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
