package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/employee"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// ListRefs implements employee.EmployeeRepository.
func (r *employeeRepository) ListRefs(ctx context.Context, filter employee.RefFilter) ([]employee.Ref, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	if filter.Group != "" {
		args = append(args, filter.Group)
		conditions = append(conditions, fmt.Sprintf("group_name = $%d", len(args)))
	}
	if filter.GroupNotNull {
		conditions = append(conditions, "group_name IS NOT NULL")
	}

	query := "SELECT token_no, group_name FROM employees"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY token_no"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee refs: %w", err)
	}
	defer rows.Close()

	var refs []employee.Ref
	for rows.Next() {
		var ref employee.Ref
		if err := rows.Scan(&ref.Token, &ref.Group); err != nil {
			return nil, fmt.Errorf("failed to scan employee ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee refs: %w", err)
	}

	return refs, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT token_no, name, group_name, desig, role, created_at
		FROM employees
	`
	var args []interface{}
	if filter.Group != "" {
		query += " WHERE group_name = $1"
		args = append(args, filter.Group)
	}
	query += " ORDER BY name, token_no"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.TokenNo, &e.Name, &e.Group, &e.Desig, &e.Role, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetByTokenNo implements employee.EmployeeRepository.
func (r *employeeRepository) GetByTokenNo(ctx context.Context, tokenNo string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT token_no, name, group_name, desig, role, created_at
		FROM employees
		WHERE token_no = $1
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, tokenNo).Scan(&e.TokenNo, &e.Name, &e.Group, &e.Desig, &e.Role, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", tokenNo, err)
	}

	return e, nil
}

// ListGroups implements employee.EmployeeRepository.
func (r *employeeRepository) ListGroups(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT group_name
		FROM employees
		WHERE group_name IS NOT NULL
		ORDER BY group_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	return groups, nil
}
