package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/onboarding-wizard/internal/directory"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

var _ directory.Provider = (*DB)(nil)

// Departments lists the seeded departments in display order
func (db *DB) Departments(ctx context.Context) ([]types.Department, error) {
	rows, err := db.pool.Query(ctx, `SELECT name FROM departments ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var out []types.Department
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		out = append(out, types.Department(name))
	}
	return out, rows.Err()
}

// SkillsFor lists the skill options of a department
func (db *DB) SkillsFor(ctx context.Context, department types.Department) ([]string, error) {
	if err := db.requireDepartment(ctx, department); err != nil {
		return nil, err
	}
	rows, err := db.pool.Query(ctx,
		`SELECT skill FROM department_skills WHERE department = $1 ORDER BY position`,
		string(department),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	skills := []string{}
	for rows.Next() {
		var skill string
		if err := rows.Scan(&skill); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

// ManagersFor lists the manager candidates of a department
func (db *DB) ManagersFor(ctx context.Context, department types.Department) ([]types.Manager, error) {
	if err := db.requireDepartment(ctx, department); err != nil {
		return nil, err
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, name FROM managers WHERE department = $1 ORDER BY position`,
		string(department),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer rows.Close()

	managers := []types.Manager{}
	for rows.Next() {
		m := types.Manager{Department: department}
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan manager: %w", err)
		}
		managers = append(managers, m)
	}
	return managers, rows.Err()
}

func (db *DB) requireDepartment(ctx context.Context, department types.Department) error {
	var exists bool
	err := db.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM departments WHERE name = $1)`, string(department)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check department: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %q", directory.ErrUnknownDepartment, department)
	}
	return nil
}

// SeedDirectory replaces the directory tables with entries in one transaction
func (db *DB) SeedDirectory(ctx context.Context, entries []directory.Entry) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM departments`); err != nil {
		return fmt.Errorf("failed to clear directory: %w", err)
	}

	batch := &pgx.Batch{}
	for i, e := range entries {
		batch.Queue(`INSERT INTO departments (name, position) VALUES ($1, $2)`, string(e.Department), i)
		for j, skill := range e.Skills {
			batch.Queue(`INSERT INTO department_skills (department, skill, position) VALUES ($1, $2, $3)`, string(e.Department), skill, j)
		}
		for j, m := range e.Managers {
			batch.Queue(`INSERT INTO managers (id, department, name, position) VALUES ($1, $2, $3, $4)`, m.ID, string(e.Department), m.Name, j)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to seed directory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
