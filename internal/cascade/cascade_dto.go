package cascade

type CascadeResult struct {
	EmployeeCode   string `json:"employee_code"`
	ReportsDeleted int    `json:"reports_deleted"`
}
