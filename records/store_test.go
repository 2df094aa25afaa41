package records

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spektr-org/recruitlytics/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	applicationsCSV = `application id,cv score,experience years,current status,recruitment channel,position id
A1,80,5,Hired,LinkedIn,P1
A2,60,,Rejected,Referral,P1
A3,,2,Applied,LinkedIn,P2
`
	positionsCSV = `position id,department
P1,Eng
P2,Sales
`
	interviewsCSV = `application id,score out of 10,duration minutes,interview type
A1,8,45,Technical
A1,9,30,HR
A2,5,60,Technical
`
	costsCSV = `application id,total cost
A1,1200.50
A2,300
`
)

func sources(apps, positions, interviews, costs string) Sources {
	return Sources{
		Applications: strings.NewReader(apps),
		Positions:    strings.NewReader(positions),
		Interviews:   strings.NewReader(interviews),
		Costs:        strings.NewReader(costs),
	}
}

func loadFixture(t *testing.T) *Store {
	t.Helper()
	store, err := Load(sources(applicationsCSV, positionsCSV, interviewsCSV, costsCSV))
	require.NoError(t, err)
	return store
}

// ============================================================================
// CSV LOADING
// ============================================================================

func TestLoadEnglishHeaders(t *testing.T) {
	store := loadFixture(t)

	assert.Equal(t, map[Table]int{
		TableApplications: 3,
		TablePositions:    2,
		TableInterviews:   3,
		TableCosts:        2,
	}, store.Counts())

	apps := store.Applications()
	assert.Equal(t, Application{
		ID:              "A1",
		CVScore:         Num(80),
		ExperienceYears: Num(5),
		Status:          "Hired",
		Channel:         "LinkedIn",
		PositionID:      "P1",
	}, apps[0])

	// empty cells are null
	assert.False(t, apps[1].ExperienceYears.Valid)
	assert.False(t, apps[2].CVScore.Valid)

	assert.Equal(t, 1200.50, store.Costs()[0].TotalCost.Float64)
	assert.Empty(t, store.Missing(TableApplications))
}

func TestLoadFrenchHeadersWithSemicolons(t *testing.T) {
	apps := "id_candidature;cv_score;experience_annees;statut_actuel;canal_recrutement;id_poste\n" +
		"1;72,5;3;Embauché;LinkedIn;10\n"
	positions := "id_poste;Département\n10;Ingénierie\n"
	interviews := "id_candidature;note_sur_10;duree_minutes;type_entretien\n1;7,5;40;Technique\n"
	costs := "id_candidature;cout_total\n1;850\n"

	store, err := Load(sources(apps, positions, interviews, costs))
	require.NoError(t, err)

	a := store.Applications()[0]
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, 72.5, a.CVScore.Float64)
	assert.Equal(t, "Embauché", a.Status)
	assert.Equal(t, "10", a.PositionID)

	assert.Equal(t, "Ingénierie", store.Positions()[0].Department)
	assert.Equal(t, 7.5, store.Interviews()[0].Score.Float64)
	assert.Equal(t, "Technique", store.Interviews()[0].Type)
}

func TestLoadLatin1(t *testing.T) {
	positions := "id_poste,d\xe9partement\nP1,Ing\xe9nierie\n"
	store, err := Load(sources(applicationsCSV, positions, interviewsCSV, costsCSV), WithEncoding(EncodingLatin1))
	require.NoError(t, err)
	assert.Equal(t, "Ingénierie", store.Positions()[0].Department)
}

func TestLoadStripsUTF8BOM(t *testing.T) {
	store, err := Load(sources("\xef\xbb\xbf"+applicationsCSV, positionsCSV, interviewsCSV, costsCSV))
	require.NoError(t, err)
	assert.Equal(t, "A1", store.Applications()[0].ID)
}

func TestLoadUnsupportedEncoding(t *testing.T) {
	_, err := Load(sources(applicationsCSV, positionsCSV, interviewsCSV, costsCSV), WithEncoding("ebcdic"))
	assert.True(t, errors.Is(err, errs.ErrDataSource))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name       string
		src        Sources
		schemaMiss bool
		contains   string
	}{
		{
			name:       "missing key column",
			src:        sources(applicationsCSV, "department\nEng\n", interviewsCSV, costsCSV),
			schemaMiss: true,
			contains:   "position_id",
		},
		{
			name:     "non numeric value",
			src:      sources(applicationsCSV, positionsCSV, interviewsCSV, "application id,total cost\nA1,lots\n"),
			contains: "line 2",
		},
		{
			name:     "infinite value",
			src:      sources(strings.Replace(applicationsCSV, "A1,80,", "A1,inf,", 1), positionsCSV, interviewsCSV, costsCSV),
			contains: "column cv_score",
		},
		{
			name:     "overflowing value",
			src:      sources(applicationsCSV, positionsCSV, interviewsCSV, "application id,total cost\nA1,1e400\n"),
			contains: "line 2",
		},
		{
			name:     "hex float",
			src:      sources(applicationsCSV, positionsCSV, interviewsCSV, "application id,total cost\nA1,0x1p3\n"),
			contains: "total_cost",
		},
		{
			name:     "empty source",
			src:      sources("", positionsCSV, interviewsCSV, costsCSV),
			contains: "no header",
		},
		{
			name:     "ragged row",
			src:      sources(applicationsCSV, "position id,department\nP1,Eng,extra\n", interviewsCSV, costsCSV),
			contains: "positions",
		},
		{
			name:     "nil source",
			src:      Sources{Applications: strings.NewReader(applicationsCSV)},
			contains: "no source",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrDataSource))
			assert.True(t, errs.IsFatal(err))
			assert.Equal(t, tt.schemaMiss, errors.Is(err, errs.ErrSchemaMismatch))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadWithoutOptionalColumn(t *testing.T) {
	interviews := "application id,score out of 10,interview type\nA1,8,Technical\n"
	store, err := Load(sources(applicationsCSV, positionsCSV, interviews, costsCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{ColDuration}, store.Missing(TableInterviews))
	assert.NoError(t, store.Require(TableInterviews, ColInterviewScore))

	err = store.Require(TableInterviews, ColInterviewScore, ColDuration)
	assert.True(t, errors.Is(err, errs.ErrSchemaMismatch))
	assert.False(t, errs.IsFatal(err))
}

func TestLoadSkipsBlankLines(t *testing.T) {
	store, err := Load(sources(applicationsCSV, "position id,department\nP1,Eng\n,\n", interviewsCSV, costsCSV))
	require.NoError(t, err)
	assert.Len(t, store.Positions(), 1)
}

// ============================================================================
// DIRECTORY LOADING
// ============================================================================

func TestLoadDirMatchesNamesCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("candidatures.csv", applicationsCSV)
	write("postes.CSV", positionsCSV)
	write("ENTRETIENS.CSV", interviewsCSV)
	write("couts.csv", costsCSV)

	store, err := LoadDir(dir, Files{})
	require.NoError(t, err)
	assert.Equal(t, 3, store.Counts()[TableApplications])
}

func TestLoadDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadDir(dir, Files{Applications: "apps.csv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrDataSource))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// ============================================================================
// STORE
// ============================================================================

func TestStoreReturnsCopies(t *testing.T) {
	store := loadFixture(t)
	apps := store.Applications()
	apps[0].Status = "changed"
	assert.Equal(t, "Hired", store.Applications()[0].Status)
}

func TestStoreViews(t *testing.T) {
	store := loadFixture(t)

	apps := store.ApplicationsView()
	require.Equal(t, 3, apps.Len())
	assert.Equal(t, "LinkedIn", apps.Dimension(0, ColChannel))
	v, ok := apps.Measure(0, ColCVScore)
	assert.True(t, ok)
	assert.Equal(t, 80.0, v)
	_, ok = apps.Measure(2, ColCVScore)
	assert.False(t, ok)

	assert.Equal(t, []string{ColApplicationID, ColInterviewType}, store.View(TableInterviews).DimensionKeys())
	assert.Equal(t, []string{ColTotalCost}, store.View(TableCosts).MeasureKeys())
	assert.Equal(t, "Sales", store.View(TablePositions).Dimension(1, ColDepartment))
}

func TestNewStore(t *testing.T) {
	store := NewStore([]Application{{ID: "A1"}}, nil, nil, nil)
	assert.Equal(t, 1, store.Counts()[TableApplications])
	assert.Equal(t, 0, store.InterviewsView().Len())
	assert.NoError(t, store.Require(TableInterviews, ColDuration))
}

// ============================================================================
// HEADERS
// ============================================================================

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Département":     "departement",
		"  CV Score ":     "cv_score",
		"note (sur 10)":   "note_sur_10",
		"Durée-minutes":   "duree_minutes",
		"application__id": "application_id",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	cols := SchemaFor(TableApplications).Resolve([]string{"Status", "current status", "id"})
	assert.Equal(t, 1, cols[ColStatus])
	assert.Equal(t, 2, cols[ColApplicationID])
	_, ok := cols[ColCVScore]
	assert.False(t, ok)
}
