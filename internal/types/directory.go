package types

// Manager is a selectable reference entity in the department-filtered candidate set.
type Manager struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Department Department `json:"department" yaml:"-"`
}

// DepartmentOverview bundles the reference data of one department.
type DepartmentOverview struct {
	Department Department `json:"department"`
	Skills     []string   `json:"skills"`
	Managers   []Manager  `json:"managers"`
}
