package records

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ============================================================================
// SCHEMA — Column layout of the four recruitment tables
// ============================================================================
// Each table declares its columns once. Loaders resolve source headers
// against Key and Aliases after normalisation, so English exports and the
// French originals load into the same typed rows.
// ============================================================================

// Table names a recruitment table.
type Table string

const (
	TableApplications Table = "applications"
	TablePositions    Table = "positions"
	TableInterviews   Table = "interviews"
	TableCosts        Table = "costs"
)

// Tables lists every table in load order.
var Tables = []Table{TableApplications, TablePositions, TableInterviews, TableCosts}

// Column keys as exposed through engine views.
const (
	ColApplicationID   = "application_id"
	ColCVScore         = "cv_score"
	ColExperienceYears = "experience_years"
	ColStatus          = "current_status"
	ColChannel         = "recruitment_channel"
	ColPositionID      = "position_id"
	ColDepartment      = "department"
	ColInterviewScore  = "score_out_of_10"
	ColDuration        = "duration_minutes"
	ColInterviewType   = "interview_type"
	ColTotalCost       = "total_cost"
)

// ColumnKind tells whether a column is grouped on or reduced.
type ColumnKind string

const (
	KindDimension ColumnKind = "dimension"
	KindMeasure   ColumnKind = "measure"
)

// ColumnMeta describes one column of a table.
type ColumnMeta struct {
	Key         string     `json:"key"`
	DisplayName string     `json:"displayName"`
	Kind        ColumnKind `json:"kind"`
	Required    bool       `json:"required,omitempty"` // load fails without it
	Aliases     []string   `json:"aliases,omitempty"`  // normalised header spellings
}

// TableSchema describes the columns of one table.
type TableSchema struct {
	Table   Table        `json:"table"`
	Columns []ColumnMeta `json:"columns"`
}

func dimension(key, display string, required bool, aliases ...string) ColumnMeta {
	return ColumnMeta{Key: key, DisplayName: display, Kind: KindDimension, Required: required, Aliases: aliases}
}

func measure(key, display string, aliases ...string) ColumnMeta {
	return ColumnMeta{Key: key, DisplayName: display, Kind: KindMeasure, Aliases: aliases}
}

var schemas = map[Table]TableSchema{
	TableApplications: {
		Table: TableApplications,
		Columns: []ColumnMeta{
			dimension(ColApplicationID, "Application ID", true, "id_candidature", "candidature_id", "id"),
			measure(ColCVScore, "CV Score", "score_cv"),
			measure(ColExperienceYears, "Experience (years)", "experience_annees", "annees_experience", "experience"),
			dimension(ColStatus, "Current Status", false, "statut_actuel", "statut", "status"),
			dimension(ColChannel, "Recruitment Channel", false, "canal_recrutement", "canal", "channel"),
			dimension(ColPositionID, "Position ID", false, "id_poste", "poste_id"),
		},
	},
	TablePositions: {
		Table: TablePositions,
		Columns: []ColumnMeta{
			dimension(ColPositionID, "Position ID", true, "id_poste", "poste_id", "id"),
			dimension(ColDepartment, "Department", false, "departement"),
		},
	},
	TableInterviews: {
		Table: TableInterviews,
		Columns: []ColumnMeta{
			dimension(ColApplicationID, "Application ID", true, "id_candidature", "candidature_id"),
			measure(ColInterviewScore, "Score (/10)", "note_sur_10", "note", "score"),
			measure(ColDuration, "Duration (minutes)", "duree_minutes", "duree"),
			dimension(ColInterviewType, "Interview Type", false, "type_entretien", "type"),
		},
	},
	TableCosts: {
		Table: TableCosts,
		Columns: []ColumnMeta{
			dimension(ColApplicationID, "Application ID", true, "id_candidature", "candidature_id"),
			measure(ColTotalCost, "Total Cost", "cout_total", "cout"),
		},
	},
}

// SchemaFor returns the column layout of t.
func SchemaFor(t Table) TableSchema {
	return schemas[t]
}

// Column returns the metadata for key, if declared.
func (s TableSchema) Column(key string) (ColumnMeta, bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnMeta{}, false
}

// Resolve maps source headers to column keys. It returns the header index of
// every declared column that was found; unknown headers are ignored.
func (s TableSchema) Resolve(headers []string) map[string]int {
	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		n := NormalizeHeader(h)
		if _, dup := byName[n]; !dup {
			byName[n] = i
		}
	}

	found := make(map[string]int, len(s.Columns))
	for _, c := range s.Columns {
		for _, name := range append([]string{c.Key}, c.Aliases...) {
			if idx, ok := byName[name]; ok {
				found[c.Key] = idx
				break
			}
		}
	}
	return found
}

// NormalizeHeader folds a source header to its lookup form:
// "Département" → "departement", "CV Score" → "cv_score".
func NormalizeHeader(h string) string {
	// Chain holds state; build one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(fold, h)
	if err != nil {
		s = h
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '-' || r == '_' || r == '/' || r == '.':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
