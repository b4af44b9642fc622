package db

// OnDelete is what happens to a dependent row when its owner is deleted.
type OnDelete int

const (
	Cascade OnDelete = iota
	SetNull
)

// Relation is one owner -> dependent edge.
type Relation struct {
	Owner     string
	Dependent string
	Column    string
	OnDelete  OnDelete
}

// Ownership is the declarative ownership graph. The cascade routine in the sqlite
// adapter walks it; the same edges are declared as FOREIGN KEY actions in SchemaSQL.
// Order matters: dependents that own rows themselves come before the rows they own
// are reached through another owner.
var Ownership = []Relation{
	{"blotter_reports", "respondents", "blotterReportId", Cascade},
	{"blotter_reports", "respondent_statements", "blotterReportId", Cascade},
	{"blotter_reports", "summons", "blotterReportId", Cascade},
	{"blotter_reports", "suspects", "blotterReportId", Cascade},
	{"blotter_reports", "witnesses", "blotterReportId", Cascade},
	{"blotter_reports", "evidence", "blotterReportId", Cascade},
	{"blotter_reports", "hearings", "blotterReportId", Cascade},
	{"blotter_reports", "resolutions", "blotterReportId", Cascade},
	{"blotter_reports", "case_timeline", "blotterReportId", Cascade},
	{"blotter_reports", "activity_logs", "blotterReportId", Cascade},
	{"blotter_reports", "person_history", "blotterReportId", Cascade},
	{"blotter_reports", "notifications", "blotterReportId", Cascade},
	{"blotter_reports", "sms_notifications", "blotterReportId", Cascade},
	{"blotter_reports", "mediation_sessions", "blotterReportId", Cascade},
	{"blotter_reports", "kp_forms", "blotterReportId", Cascade},

	{"respondents", "respondent_statements", "respondentId", Cascade},
	{"respondents", "summons", "respondentId", Cascade},

	{"persons", "person_history", "personId", Cascade},
	{"persons", "suspects", "personId", SetNull},
	{"persons", "witnesses", "personId", SetNull},
	{"persons", "respondents", "personId", SetNull},

	{"users", "notifications", "userId", Cascade},
	{"users", "officers", "userId", SetNull},
	{"users", "blotter_reports", "filedByUserId", SetNull},
}

// DependentsOf returns the edges leaving owner, in graph order.
func DependentsOf(owner string) []Relation {
	var out []Relation
	for _, r := range Ownership {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	return out
}

// CaseTables lists every table holding rows owned by a case.
func CaseTables() []string {
	var out []string
	for _, r := range DependentsOf("blotter_reports") {
		out = append(out, r.Dependent)
	}
	return out
}
