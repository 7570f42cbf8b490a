package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

// StartWindowDays is how far ahead of today a start date may be scheduled.
const StartWindowDays = 90

// Salary bounds per job type, inclusive.
const (
	FullTimeSalaryMin = 30000
	FullTimeSalaryMax = 200000
	PartTimeSalaryMin = 10000
	PartTimeSalaryMax = 120000
)

// ManagerLookup returns the manager candidate set of a department in display order.
type ManagerLookup func(types.Department) ([]types.Manager, error)

// noWeekendStart lists the departments whose start date cannot fall on Friday or Saturday.
var noWeekendStart = map[types.Department]bool{
	types.DepartmentHR:      true,
	types.DepartmentFinance: true,
}

var departmentNames = func() []string {
	names := make([]string, 0, len(types.Departments))
	for _, d := range types.Departments {
		names = append(names, string(d))
	}
	return names
}()

var jobTypeNames = func() []string {
	names := make([]string, 0, len(types.JobTypes))
	for _, j := range types.JobTypes {
		names = append(names, string(j))
	}
	return names
}()

// ValidateJobDetails validates the raw input of step 2. When managers is non-nil the
// manager must name a member of the department's candidate set; a lookup failure is
// returned as a *LookupError rather than a field error.
func ValidateJobDetails(in rules.Input, now time.Time, managers ManagerLookup) (*types.JobDetails, error) {
	ve := &rules.ValidationError{}
	rec := &types.JobDetails{}

	dept, deptOK := text(ve, "department", in, "department", "Department is required",
		rules.OneOf(departmentNames, "Select a valid department"),
	)
	rec.Department = types.Department(dept)

	rec.PositionTitle, _ = text(ve, "positionTitle", in, "positionTitle", "Position is required",
		rules.MinLength(3, "Position must be at least 3 characters"),
	)

	if raw, ok := text(ve, "startDate", in, "startDate", "Start date is required"); ok {
		start, f := rules.ParseDate(raw, "Invalid start date")
		if f == nil {
			today := types.DateOf(now)
			checks := []rules.Check[types.Date]{
				rules.DateBetween(today, DateAdd(today, StartWindowDays),
					fmt.Sprintf("Start date must be between today and %d days from now", StartWindowDays)),
			}
			if deptOK && noWeekendStart[rec.Department] {
				checks = append(checks, rules.NotOn([]time.Weekday{time.Friday, time.Saturday},
					"HR and Finance start dates cannot fall on a Friday or Saturday"))
			}
			f = rules.First(start, checks...)
		}
		ve.Add("startDate", f)
		rec.StartDate = start
	}

	jobType, jobTypeOK := text(ve, "jobType", in, "jobType", "Job type is required",
		rules.OneOf(jobTypeNames, "Select a valid job type"),
	)
	rec.JobType = types.JobType(jobType)

	salary, present, f := rules.Number(in, "salary")
	if f != nil {
		ve.Add("salary", f)
	} else {
		if present {
			rec.Salary = &salary
		}
		if jobTypeOK {
			ve.Add("salary", salaryRule(rec.JobType, salary, present))
		}
	}

	name, managerOK := text(ve, "manager", in, "manager", "Manager is required",
		rules.NonBlank("Manager is required"),
	)
	rec.Manager = name
	if managerOK && deptOK && managers != nil {
		candidates, err := managers(rec.Department)
		switch {
		case errors.Is(err, ErrUnknownDepartment):
			ve.Add("department", rules.Fail(rules.CodeCrossDependency, "The %s department is not available", rec.Department))
		case err != nil:
			return nil, &LookupError{Message: fmt.Sprintf("failed to load managers for %s", rec.Department), Cause: err}
		case !InCandidateSet(name, candidates):
			ve.Add("manager", rules.Fail(rules.CodeCrossDependency, "Manager is not part of the %s department", rec.Department))
		}
	}

	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return rec, nil
}

// salaryRule applies the salary constraint of jobType.
func salaryRule(jobType types.JobType, salary float64, present bool) *rules.Failure {
	switch jobType {
	case types.JobTypeFullTime:
		if !present {
			return rules.Fail(rules.CodeRequired, "Salary required for Full-time")
		}
		return rules.Between(FullTimeSalaryMin, FullTimeSalaryMax,
			"Full-time salary must be between 30,000 and 200,000")(salary)
	case types.JobTypeContract:
		if !present {
			return rules.Fail(rules.CodeRequired, "Salary required for Contract (150/hour)")
		}
		return rules.WithCode(rules.CodeCrossDependency,
			rules.Equal(ContractHourlyRate, "Contract salary must be exactly 150/hour"))(salary)
	case types.JobTypePartTime:
		if !present {
			return nil
		}
		return rules.Between(PartTimeSalaryMin, PartTimeSalaryMax,
			"Part-time salary (if provided) must be between 10,000 and 120,000")(salary)
	}
	return nil
}

// DateAdd returns d moved by days calendar days.
func DateAdd(d types.Date, days int) types.Date {
	return types.Date{Time: d.AddDate(0, 0, days)}
}
