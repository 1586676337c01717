package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/skills"
)

// SaveBank replaces the questions table with every spec in bank.
func (s *Store) SaveBank(ctx context.Context, bank *content.Bank) (n int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return 0, fmt.Errorf("clear questions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (skill, band, prompt, answers, tip, focus, choices)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, skill := range bank.Skills() {
		for _, spec := range bank.All(skill) {
			answers, merr := json.Marshal(spec.Answers)
			if merr != nil {
				return 0, fmt.Errorf("encode answers: %w", merr)
			}
			choices := spec.Choices
			if choices == nil {
				choices = []string{}
			}
			choiceJSON, merr := json.Marshal(choices)
			if merr != nil {
				return 0, fmt.Errorf("encode choices: %w", merr)
			}
			if _, err = stmt.ExecContext(ctx, string(skill), spec.Band, spec.Prompt,
				string(answers), spec.Tip, spec.Focus, string(choiceJSON)); err != nil {
				return 0, fmt.Errorf("insert %s question: %w", skill, err)
			}
			n++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// LoadBank reads the questions table back into a bank. An empty table
// yields content.ErrEmptySkill wrapped with context.
func (s *Store) LoadBank(ctx context.Context) (*content.Bank, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skill, band, prompt, answers, tip, focus, choices FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	specs := make(map[skills.Skill][]content.QuestionSpec)
	for rows.Next() {
		var (
			skill, answers, choices string
			spec                    content.QuestionSpec
		)
		if err := rows.Scan(&skill, &spec.Band, &spec.Prompt, &answers, &spec.Tip, &spec.Focus, &choices); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &spec.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for %q: %w", spec.Prompt, err)
		}
		if err := json.Unmarshal([]byte(choices), &spec.Choices); err != nil {
			return nil, fmt.Errorf("decode choices for %q: %w", spec.Prompt, err)
		}
		specs[skills.Skill(skill)] = append(specs[skills.Skill(skill)], spec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("questions table: %w", content.ErrEmptySkill)
	}
	return content.FromSpecs(specs)
}
