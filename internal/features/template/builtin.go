package template

import "fmt"

// Built-in approval templates. Redirect URLs are relative; the approval
// controller resolves them against the configured base URL.
func builtinTemplates() []Config {
	approveReject := []ActionSpec{
		{Name: "approve", Label: "Approve", Style: "primary"},
		{Name: "reject", Label: "Reject", Style: "danger", RequiresRemarks: true, Rejects: true},
	}

	return []Config{
		{
			Name:    "leave-approval",
			Subject: "Leave request {{source_id}} from {{employee_name}} needs your approval",
			DataMapper: func(data map[string]interface{}) []Row {
				return pickRows(data, []picked{
					{"employee_name", "Employee"},
					{"leave_type", "Leave Type"},
					{"start_date", "From"},
					{"end_date", "To"},
					{"days", "Days"},
					{"reason", "Reason"},
				})
			},
			Actions: approveReject,
			RedirectURLs: RedirectURLs{
				Success:   "/approved",
				Rejection: "/rejected",
				Error:     "/approval-error",
			},
		},
		{
			Name:    "expense-approval",
			Subject: "Expense claim {{source_id}} ({{amount}}) needs your approval",
			DataMapper: func(data map[string]interface{}) []Row {
				return pickRows(data, []picked{
					{"employee_name", "Employee"},
					{"category", "Category"},
					{"amount", "Amount"},
					{"expense_date", "Date"},
					{"description", "Description"},
				})
			},
			Actions: approveReject,
			RedirectURLs: RedirectURLs{
				Success:   "/approved",
				Rejection: "/rejected",
				Error:     "/approval-error",
			},
		},
		{
			Name:    "timesheet-approval",
			Subject: "Timesheet {{source_id}} for {{period}} needs your approval",
			DataMapper: func(data map[string]interface{}) []Row {
				return pickRows(data, []picked{
					{"employee_name", "Employee"},
					{"period", "Period"},
					{"total_hours", "Total Hours"},
					{"overtime_hours", "Overtime"},
				})
			},
			Actions: approveReject,
			RedirectURLs: RedirectURLs{
				Success:   "/approved",
				Rejection: "/rejected",
				Error:     "/approval-error",
			},
		},
	}
}

type picked struct {
	key   string
	label string
}

func pickRows(data map[string]interface{}, fields []picked) []Row {
	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		if value, ok := data[f.key]; ok {
			rows = append(rows, Row{Label: f.label, Value: fmt.Sprintf("%v", value)})
		}
	}
	return rows
}
