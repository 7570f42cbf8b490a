// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintPersonalInfo outputs the step 1 record.
func (p *Printer) PrintPersonalInfo(info *types.PersonalInfo) {
	if info == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", info.FullName))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", info.Email))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", info.Phone))
	sb.WriteString(fmt.Sprintf("Born:     %s\n", info.DOB))
	if pic := info.ProfilePicture; pic != nil {
		name := pic.Name
		if name == "" {
			name = "(unnamed)"
		}
		sb.WriteString(fmt.Sprintf("Picture:  %s (%s, %d KB)\n", name, pic.Type, (pic.Size+1023)/1024))
	}

	p.printBox("PERSONAL INFO", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobDetails outputs the step 2 record.
func (p *Printer) PrintJobDetails(job *types.JobDetails) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Department: %s\n", job.Department))
	sb.WriteString(fmt.Sprintf("Position:   %s\n", job.PositionTitle))
	sb.WriteString(fmt.Sprintf("Start:      %s (%s)\n", job.StartDate, job.StartDate.Weekday()))
	sb.WriteString(fmt.Sprintf("Type:       %s\n", job.JobType))
	if job.Salary != nil {
		if job.JobType == types.JobTypeContract {
			sb.WriteString(fmt.Sprintf("Rate:       $%.0f/hour\n", *job.Salary))
		} else {
			sb.WriteString(fmt.Sprintf("Salary:     $%.0f/year\n", *job.Salary))
		}
	}
	sb.WriteString(fmt.Sprintf("Manager:    %s\n", job.Manager))

	p.printBox("JOB DETAILS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs the step 3 record.
func (p *Printer) PrintSkills(skills *types.Skills) {
	if skills == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(skills.Skills)))
	count := min(len(skills.Skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		skill := skills.Skills[i]
		sb.WriteString(fmt.Sprintf("  • %s", skill))
		if exp := skills.Experiences[skill]; exp != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", exp))
		}
		sb.WriteString("\n")
	}
	if len(skills.Skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills.Skills)-maxItemsToShow))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Hours:    %s - %s\n", skills.PreferredHours.Start, skills.PreferredHours.End))
	sb.WriteString(fmt.Sprintf("Remote:   %d%%", skills.RemotePreference))
	if skills.ManagerApproved != nil && *skills.ManagerApproved {
		sb.WriteString(" (manager approved)")
	}
	sb.WriteString("\n")
	if skills.Notes != "" {
		sb.WriteString(fmt.Sprintf("Notes:    %s\n", skills.Notes))
	}

	p.printBox("SKILLS & PREFERENCES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEmergency outputs the step 4 record.
func (p *Printer) PrintEmergency(em *types.Emergency) {
	if em == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Contact:  %s (%s)\n", em.ContactName, em.Relationship))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", em.Phone))
	if g := em.GuardianContact; g != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Guardian: %s\n", g.Name))
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", g.Phone))
	}

	p.printBox("EMERGENCY CONTACT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReview outputs every stored record followed by a completeness line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReview(data *types.AllFormData) {
	if data == nil {
		return
	}

	p.PrintPersonalInfo(data.Step1)
	p.PrintJobDetails(data.Step2)
	p.PrintSkills(data.Step3)
	p.PrintEmergency(data.Step4)

	missing := data.Missing()
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	if len(missing) == 0 {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ READY TO SUBMIT")
	} else {
		labels := make([]string, 0, len(missing))
		for _, step := range missing {
			labels = append(labels, step.Label())
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate("⚠ MISSING: "+strings.Join(labels, ", "), boxWidth-4))
	}
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

// PrintFieldErrors outputs field errors sorted by path.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFieldErrors(verr *rules.ValidationError) {
	if verr == nil || verr.Empty() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO FIELD ERRORS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	errs := append([]rules.FieldError(nil), verr.Errors...)
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d field errors:\n\n", len(errs)))
	for i, fe := range errs {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", fe.Message))
		sb.WriteString(fmt.Sprintf("  [%s]", fe.Code))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox("FIELD ERRORS", sb.String())
}

// PrintSubmissions outputs the submission log, newest first.
func (p *Printer) PrintSubmissions(subs []types.Submission) {
	var sb strings.Builder
	if len(subs) == 0 {
		sb.WriteString("No submissions yet")
	} else {
		sb.WriteString(fmt.Sprintf("Total submissions: %d\n\n", len(subs)))
		for i, sub := range subs {
			name := "(unknown)"
			if sub.Payload.Step1 != nil {
				name = sub.Payload.Step1.FullName
			}
			dept := ""
			if sub.Payload.Step2 != nil {
				dept = string(sub.Payload.Step2.Department)
			}
			sb.WriteString(fmt.Sprintf("%s  %s", sub.Payload.SubmittedAt, name))
			if dept != "" {
				sb.WriteString(fmt.Sprintf(" · %s", dept))
			}
			if i < len(subs)-1 {
				sb.WriteString("\n")
			}
		}
	}

	p.printBox("SUBMISSIONS", sb.String())
}
