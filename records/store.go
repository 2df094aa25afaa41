package records

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spektr-org/recruitlytics/engine"
	"github.com/spektr-org/recruitlytics/errs"
	"github.com/spektr-org/recruitlytics/logging"
)

// ============================================================================
// STORE — Read-only typed rows for the four tables
// ============================================================================

// Store holds the loaded tables. It is never mutated after load; accessors
// return copies.
type Store struct {
	applications []Application
	positions    []Position
	interviews   []Interview
	costs        []Cost

	// declared columns absent from the source, per table
	missing map[Table][]string
}

// NewStore builds a store from rows already in memory. Every column is
// considered present.
func NewStore(applications []Application, positions []Position, interviews []Interview, costs []Cost) *Store {
	return &Store{
		applications: clone(applications),
		positions:    clone(positions),
		interviews:   clone(interviews),
		costs:        clone(costs),
		missing:      map[Table][]string{},
	}
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func (s *Store) Applications() []Application { return clone(s.applications) }
func (s *Store) Positions() []Position       { return clone(s.positions) }
func (s *Store) Interviews() []Interview     { return clone(s.interviews) }
func (s *Store) Costs() []Cost               { return clone(s.costs) }

// Counts returns the row count of every table.
func (s *Store) Counts() map[Table]int {
	return map[Table]int{
		TableApplications: len(s.applications),
		TablePositions:    len(s.positions),
		TableInterviews:   len(s.interviews),
		TableCosts:        len(s.costs),
	}
}

// Missing lists the optional columns table t was loaded without.
func (s *Store) Missing(t Table) []string {
	return clone(s.missing[t])
}

// Require fails with a SchemaMismatchError if any of columns was absent
// from table t's source.
func (s *Store) Require(t Table, columns ...string) error {
	for _, c := range columns {
		for _, m := range s.missing[t] {
			if m == c {
				return errs.NewSchemaMismatchError(string(t), c)
			}
		}
	}
	return nil
}

// ============================================================================
// VIEWS
// ============================================================================

var (
	applicationAdapter = engine.NewDomainAdapter[Application]().
				Dimension(ColApplicationID, func(a Application) string { return a.ID }).
				Dimension(ColStatus, func(a Application) string { return a.Status }).
				Dimension(ColChannel, func(a Application) string { return a.Channel }).
				Dimension(ColPositionID, func(a Application) string { return a.PositionID }).
				Measure(ColCVScore, func(a Application) (float64, bool) { return nullable(a.CVScore) }).
				Measure(ColExperienceYears, func(a Application) (float64, bool) { return nullable(a.ExperienceYears) })

	positionAdapter = engine.NewDomainAdapter[Position]().
			Dimension(ColPositionID, func(p Position) string { return p.ID }).
			Dimension(ColDepartment, func(p Position) string { return p.Department })

	interviewAdapter = engine.NewDomainAdapter[Interview]().
				Dimension(ColApplicationID, func(i Interview) string { return i.ApplicationID }).
				Dimension(ColInterviewType, func(i Interview) string { return i.Type }).
				Measure(ColInterviewScore, func(i Interview) (float64, bool) { return nullable(i.Score) }).
				Measure(ColDuration, func(i Interview) (float64, bool) { return nullable(i.DurationMinutes) })

	costAdapter = engine.NewDomainAdapter[Cost]().
			Dimension(ColApplicationID, func(c Cost) string { return c.ApplicationID }).
			Measure(ColTotalCost, func(c Cost) (float64, bool) { return nullable(c.TotalCost) })
)

func (s *Store) ApplicationsView() engine.RecordView { return applicationAdapter.Bind(s.applications) }
func (s *Store) PositionsView() engine.RecordView    { return positionAdapter.Bind(s.positions) }
func (s *Store) InterviewsView() engine.RecordView   { return interviewAdapter.Bind(s.interviews) }
func (s *Store) CostsView() engine.RecordView        { return costAdapter.Bind(s.costs) }

// View returns the record view of table t.
func (s *Store) View(t Table) engine.RecordView {
	switch t {
	case TablePositions:
		return s.PositionsView()
	case TableInterviews:
		return s.InterviewsView()
	case TableCosts:
		return s.CostsView()
	default:
		return s.ApplicationsView()
	}
}

// ============================================================================
// LOADING
// ============================================================================

// Sources supplies the raw CSV stream of every table.
type Sources struct {
	Applications io.Reader
	Positions    io.Reader
	Interviews   io.Reader
	Costs        io.Reader
}

// Files names the CSV file of every table, relative to a directory.
type Files struct {
	Applications string
	Positions    string
	Interviews   string
	Costs        string
}

// DefaultFiles returns the file names of the original exports.
func DefaultFiles() Files {
	return Files{
		Applications: "Candidatures.CSV",
		Positions:    "postes.CSV",
		Interviews:   "Entretiens.CSV",
		Costs:        "couts.CSV",
	}
}

func (f Files) withDefaults() Files {
	d := DefaultFiles()
	if f.Applications == "" {
		f.Applications = d.Applications
	}
	if f.Positions == "" {
		f.Positions = d.Positions
	}
	if f.Interviews == "" {
		f.Interviews = d.Interviews
	}
	if f.Costs == "" {
		f.Costs = d.Costs
	}
	return f
}

func (f Files) name(t Table) string {
	switch t {
	case TablePositions:
		return f.Positions
	case TableInterviews:
		return f.Interviews
	case TableCosts:
		return f.Costs
	default:
		return f.Applications
	}
}

// LoadOption configures a load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	encoding  string
	delimiter rune
	logger    logging.Logger
}

// WithEncoding sets the source encoding (utf-8, latin1, windows-1252).
func WithEncoding(name string) LoadOption {
	return func(c *loadConfig) { c.encoding = name }
}

// WithDelimiter forces the CSV field delimiter instead of sniffing it.
func WithDelimiter(r rune) LoadOption {
	return func(c *loadConfig) { c.delimiter = r }
}

// WithLogger sets the load logger.
func WithLogger(l logging.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = l }
}

func applyLoadOptions(opts []LoadOption) *loadConfig {
	cfg := &loadConfig{encoding: EncodingUTF8, logger: logging.NewNoOpLogger()}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// LoadDir reads the four CSV files from dir. Empty names in files fall back
// to DefaultFiles. A file that cannot be opened is a DataSourceError.
func LoadDir(dir string, files Files, opts ...LoadOption) (*Store, error) {
	files = files.withDefaults()

	readers := make(map[Table]io.Reader, len(Tables))
	for _, t := range Tables {
		path, err := resolvePath(dir, files.name(t))
		if err != nil {
			return nil, errs.NewDataSourceError(fmt.Sprintf("table %s", t), err).With("file", files.name(t))
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, errs.NewDataSourceError(fmt.Sprintf("table %s", t), err).With("file", path)
		}
		defer f.Close()
		readers[t] = f
	}

	return Load(Sources{
		Applications: readers[TableApplications],
		Positions:    readers[TablePositions],
		Interviews:   readers[TableInterviews],
		Costs:        readers[TableCosts],
	}, opts...)
}

// resolvePath finds name in dir, falling back to a case-insensitive match
// (exports ship as "Candidatures.CSV" or "candidatures.csv").
func resolvePath(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), name) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%s: %w", path, os.ErrNotExist)
}

// Load reads the four tables from CSV streams. Any nil source is a
// DataSourceError.
func Load(src Sources, opts ...LoadOption) (*Store, error) {
	cfg := applyLoadOptions(opts)
	if _, err := lookupEncoding(cfg.encoding); err != nil {
		return nil, errs.NewDataSourceError("encoding", err)
	}

	readers := map[Table]io.Reader{
		TableApplications: src.Applications,
		TablePositions:    src.Positions,
		TableInterviews:   src.Interviews,
		TableCosts:        src.Costs,
	}

	raws := make(map[Table]*rawTable, len(Tables))
	for _, t := range Tables {
		if readers[t] == nil {
			return nil, errs.NewDataSourceError(fmt.Sprintf("table %s: no source", t), nil)
		}
		raw, err := readCSV(t, readers[t], cfg)
		if err != nil {
			return nil, err
		}
		raws[t] = raw
	}
	return build(raws, cfg.logger)
}

// build decodes resolved raw tables into a Store.
func build(raws map[Table]*rawTable, logger logging.Logger) (*Store, error) {
	s := &Store{missing: make(map[Table][]string)}

	for _, t := range Tables {
		raw := raws[t]
		missing, err := raw.missing()
		if err != nil {
			// a table without its key cannot be loaded at all
			return nil, errs.NewDataSourceError(fmt.Sprintf("table %s", t), err)
		}
		if len(missing) > 0 {
			s.missing[t] = missing
			logger.Warn("table loaded without columns", map[string]interface{}{
				"table":   string(t),
				"missing": missing,
			})
		}

		switch t {
		case TableApplications:
			s.applications, err = decodeApplications(raw)
		case TablePositions:
			s.positions = decodePositions(raw)
		case TableInterviews:
			s.interviews, err = decodeInterviews(raw)
		case TableCosts:
			s.costs, err = decodeCosts(raw)
		}
		if err != nil {
			return nil, err
		}
		logger.Debug("table loaded", map[string]interface{}{
			"table": string(t),
			"rows":  len(raw.rows),
		})
	}
	return s, nil
}

// ============================================================================
// DECODING
// ============================================================================

func decodeApplications(raw *rawTable) ([]Application, error) {
	out := make([]Application, 0, len(raw.rows))
	for i := range raw.rows {
		cv, err := nullNum(raw, i, ColCVScore)
		if err != nil {
			return nil, err
		}
		exp, err := nullNum(raw, i, ColExperienceYears)
		if err != nil {
			return nil, err
		}
		out = append(out, Application{
			ID:              raw.str(i, ColApplicationID),
			CVScore:         cv,
			ExperienceYears: exp,
			Status:          raw.str(i, ColStatus),
			Channel:         raw.str(i, ColChannel),
			PositionID:      raw.str(i, ColPositionID),
		})
	}
	return out, nil
}

func decodePositions(raw *rawTable) []Position {
	out := make([]Position, 0, len(raw.rows))
	for i := range raw.rows {
		out = append(out, Position{
			ID:         raw.str(i, ColPositionID),
			Department: raw.str(i, ColDepartment),
		})
	}
	return out
}

func decodeInterviews(raw *rawTable) ([]Interview, error) {
	out := make([]Interview, 0, len(raw.rows))
	for i := range raw.rows {
		score, err := nullNum(raw, i, ColInterviewScore)
		if err != nil {
			return nil, err
		}
		dur, err := nullNum(raw, i, ColDuration)
		if err != nil {
			return nil, err
		}
		out = append(out, Interview{
			ApplicationID:   raw.str(i, ColApplicationID),
			Score:           score,
			DurationMinutes: dur,
			Type:            raw.str(i, ColInterviewType),
		})
	}
	return out, nil
}

func decodeCosts(raw *rawTable) ([]Cost, error) {
	out := make([]Cost, 0, len(raw.rows))
	for i := range raw.rows {
		total, err := nullNum(raw, i, ColTotalCost)
		if err != nil {
			return nil, err
		}
		out = append(out, Cost{ApplicationID: raw.str(i, ColApplicationID), TotalCost: total})
	}
	return out, nil
}

func nullNum(raw *rawTable, row int, key string) (sqlNull, error) {
	v, ok, err := raw.num(row, key)
	if err != nil {
		return sqlNull{}, err
	}
	if !ok {
		return sqlNull{}, nil
	}
	return Num(v), nil
}
