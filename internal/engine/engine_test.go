package engine

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coltype/internal/columns"
	"github.com/coltype/internal/match"
	"github.com/coltype/internal/metrics"
	"github.com/coltype/internal/phone"
	"github.com/coltype/internal/refdata"
	"github.com/coltype/internal/suffix"
)

const sampleCSV = `name,phone,country,notes
Tresata pvt ltd.,+14752162114,France,Random text
Enno Roggemann GmbH & Co. KG,(475) 216-2114,Germany,Another random string
Acme Inc.,9876543210,India,Just some words
`

type stubPhones struct{ regions []string }

func (s *stubPhones) Split(raw, region string) phone.Split {
	s.regions = append(s.regions, region)
	if strings.HasPrefix(raw, "+1") {
		return phone.Split{Country: "United States", Number: strings.ReplaceAll(raw, " ", "")}
	}
	return phone.Split{Number: raw}
}

func newTestEngine(t *testing.T, m *metrics.Metrics) (*Engine, *stubPhones) {
	t.Helper()
	refs := refdata.New(
		[]string{"France", "Germany", "India"},
		[]string{"Pvt Ltd", "Ltd", "GmbH & Co. KG", "Inc."},
	)
	matcher := suffix.New(refs.LegalSuffixes())
	phones := &stubPhones{}

	return New(Config{
		Classifier: match.NewClassifier(match.ClassifierConfig{Refs: refs, Suffixes: matcher}),
		Companies:  matcher,
		Phones:     phones,
		Metrics:    m,
	}), phones
}

func loadSample(t *testing.T, content string) *columns.Table {
	t.Helper()
	table, err := columns.ReadCSV(strings.NewReader(content))
	require.NoError(t, err)
	return table
}

func TestClassifyAll(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	reports := e.ClassifyAll(loadSample(t, sampleCSV))
	require.Len(t, reports, 4)

	want := []match.Label{match.LabelCompanyName, match.LabelPhoneNumber, match.LabelCountry, match.LabelOther}
	for i, r := range reports {
		assert.Equal(t, want[i], r.Label, "column %s", r.Column)
	}
	assert.Equal(t, "name", reports[0].Column)
	assert.InDelta(t, 7.0/3.0, reports[1].Confidence, 1e-9)
}

func TestParseTable(t *testing.T) {
	e, phones := newTestEngine(t, nil)

	out, err := e.ParseTable(loadSample(t, sampleCSV), ParseOptions{MinConfidence: 0.6, Region: "US"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		ColOriginalPhone, ColParsedCountry, ColParsedPhone,
		ColOriginalCompany, ColParsedCompany, ColParsedLegal,
	}, out.Headers)
	assert.Equal(t, "phone", out.PhoneColumn)
	assert.Equal(t, "name", out.CompanyColumn)
	require.Len(t, out.Rows, 3)

	assert.Equal(t, []string{
		"+14752162114", "United States", "+14752162114",
		"Tresata pvt ltd.", "Tresata", "pvt ltd.",
	}, out.Rows[0])
	assert.Equal(t, []string{
		"(475) 216-2114", "", "(475) 216-2114",
		"Enno Roggemann GmbH & Co. KG", "Enno Roggemann", "GmbH & Co. KG",
	}, out.Rows[1])
	assert.Equal(t, "Inc.", out.Rows[2][5])

	assert.Equal(t, []string{"US", "US", "US"}, phones.regions)
	assert.Len(t, out.Reports, 4)
}

func TestParseTableCompanyOnly(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	out, err := e.ParseTable(loadSample(t, "firm\nAcme Inc.\nTresata pvt ltd.\n"), ParseOptions{MinConfidence: 0.6})
	require.NoError(t, err)

	assert.Equal(t, []string{ColOriginalCompany, ColParsedCompany, ColParsedLegal}, out.Headers)
	assert.Empty(t, out.PhoneColumn)
	assert.Equal(t, [][]string{
		{"Acme Inc.", "Acme", "Inc."},
		{"Tresata pvt ltd.", "Tresata", "pvt ltd."},
	}, out.Rows)
}

func TestParseTableBelowThreshold(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	out, err := e.ParseTable(loadSample(t, sampleCSV), ParseOptions{MinConfidence: 5})
	assert.ErrorIs(t, err, ErrNoColumns)
	require.NotNil(t, out)
	assert.Len(t, out.Reports, 4)
	assert.Empty(t, out.Rows)
}

func TestParseTableNoCandidates(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	_, err := e.ParseTable(loadSample(t, "notes\nRandom text\n"), ParseOptions{MinConfidence: 0.6})
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestSelectColumnsFirstWinsTies(t *testing.T) {
	reports := []ColumnReport{
		{Column: "a", Result: match.Result{Label: match.LabelPhoneNumber, Confidence: 2}},
		{Column: "b", Result: match.Result{Label: match.LabelPhoneNumber, Confidence: 2}},
		{Column: "c", Result: match.Result{Label: match.LabelCompanyName, Confidence: 0.8}},
		{Column: "d", Result: match.Result{Label: match.LabelCompanyName, Confidence: 0.9}},
		{Column: "e", Result: match.Result{Label: match.LabelOther, Confidence: 0.5}},
	}

	p, c := SelectColumns(reports)
	assert.Equal(t, "a", p.Column)
	assert.Equal(t, "d", c.Column)

	p, c = SelectColumns(nil)
	assert.Empty(t, p.Column)
	assert.Empty(t, c.Column)
}

func TestEngineRecordsMetrics(t *testing.T) {
	m := metrics.New(false)
	e, _ := newTestEngine(t, m)

	_, err := e.ParseTable(loadSample(t, sampleCSV), ParseOptions{MinConfidence: 0.6})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `coltype_classifications_total{label="PhoneNumber"} 1`)
	assert.Contains(t, body, `coltype_splits_total{kind="company",outcome="matched"} 3`)
	assert.Contains(t, body, `coltype_splits_total{kind="phone",outcome="matched"} 1`)
	assert.Contains(t, body, `coltype_splits_total{kind="phone",outcome="unmatched"} 2`)
}

func TestWriteReportTable(t *testing.T) {
	reports := []ColumnReport{
		{Column: "phone_number", Result: match.Result{Label: match.LabelPhoneNumber, Confidence: 7.0 / 3.0}},
		{Column: "x", Result: match.Result{Label: match.LabelOther, Confidence: 0.5}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReportTable(&buf, reports))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "COLUMN       | LABEL         | CONF", lines[0])
	assert.Equal(t, "phone_number | PhoneNumber   | 2.33", lines[2])
	assert.Equal(t, "x            | Other         | 0.50", lines[3])
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, []ColumnReport{
		{Column: "d", Result: match.Result{Label: match.LabelDate, Confidence: 1.25}},
	}))
	assert.Equal(t, "column,label,confidence\nd,Date,1.25\n", buf.String())
}

func TestClassifyScored(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	result, scores := e.ClassifyScored([]string{"+14752162114", "(475) 216-2114"})
	assert.Equal(t, match.LabelPhoneNumber, result.Label)
	require.NotNil(t, scores)
	assert.Equal(t, result.Confidence, scores[match.LabelPhoneNumber])
}

type fixedClassifier struct{}

func (fixedClassifier) ClassifyColumn([]string) match.Result {
	return match.Result{Label: match.LabelDate, Confidence: 1}
}

func TestClassifyScoredWithoutScores(t *testing.T) {
	e := New(Config{Classifier: fixedClassifier{}})

	result, scores := e.ClassifyScored([]string{"x"})
	assert.Equal(t, match.LabelDate, result.Label)
	assert.Nil(t, scores)
}
