package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/pharmaguard/internal/assess"
	"github.com/inodb/pharmaguard/internal/duckdb"
	"github.com/inodb/pharmaguard/internal/report"
)

const sampleVCF = "##fileformat=VCFv4.2\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tPATIENT_007\n" +
	"22\t42130692\trs1\tC\tT\t.\tPASS\tGENE=CYP2D6;STAR=*4\tGT\t1/1\n"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeHistory struct {
	written []*report.Result
	records []duckdb.Record
	err     error
}

func (h *fakeHistory) WriteResults(results []*report.Result) ([]string, error) {
	if h.err != nil {
		return nil, h.err
	}
	h.written = append(h.written, results...)
	return []string{"id"}, nil
}

func (h *fakeHistory) Recent(limit int) ([]duckdb.Record, error) {
	if h.err != nil {
		return nil, h.err
	}
	if limit < len(h.records) {
		return h.records[:limit], nil
	}
	return h.records, nil
}

func uploadRequest(t *testing.T, url, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestProcessVCF(t *testing.T) {
	h := &fakeHistory{}
	s := New(assess.NewEngine(), h)

	rec := serve(s, uploadRequest(t, "/process_vcf/?drug=codeine", "patient.vcf", sampleVCF))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res report.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "PATIENT_007", res.PatientID)
	assert.Equal(t, "CODEINE", res.Drug)
	assert.Equal(t, "*4/*4", res.PrimaryProfile().Diplotype)
	assert.Equal(t, "PM", res.PrimaryProfile().Phenotype)
	assert.Equal(t, "Ineffective", res.RiskAssessment.RiskLabel)

	require.Len(t, h.written, 1)
	assert.Equal(t, "CODEINE", h.written[0].Drug)
}

func TestProcessVCF_UnsupportedDrug(t *testing.T) {
	h := &fakeHistory{}
	s := New(assess.NewEngine(), h)

	rec := serve(s, uploadRequest(t, "/process_vcf/?drug=ASPIRIN", "patient.vcf", sampleVCF))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unsupported drug", body["error"])
	assert.Equal(t, "ASPIRIN", body["drug"])
	assert.Len(t, body["supported"], 6)
	assert.Empty(t, h.written)
}

func TestProcessVCF_MissingDrug(t *testing.T) {
	s := New(assess.NewEngine(), nil)
	rec := serve(s, uploadRequest(t, "/process_vcf/", "patient.vcf", sampleVCF))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestProcessVCF_DrugInForm(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("drug", "warfarin"))
	fw, err := mw.CreateFormFile("file", "patient.vcf")
	require.NoError(t, err)
	_, err = fw.Write([]byte(sampleVCF))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/process_vcf/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := serve(New(assess.NewEngine(), nil), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res report.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "WARFARIN", res.Drug)
	assert.Equal(t, "*1/*1", res.PrimaryProfile().Diplotype)
	assert.Equal(t, "Safe", res.RiskAssessment.RiskLabel)
}

func TestProcessVCF_MissingFile(t *testing.T) {
	s := New(assess.NewEngine(), nil)
	rec := serve(s, uploadRequest(t, "/process_vcf/?drug=CODEINE", "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessVCF_TooLarge(t *testing.T) {
	s := New(assess.NewEngine(), nil)
	s.SetMaxUploadBytes(64)
	rec := serve(s, uploadRequest(t, "/process_vcf/?drug=CODEINE", "patient.vcf", sampleVCF))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessVCF_HistoryFailureIgnored(t *testing.T) {
	s := New(assess.NewEngine(), &fakeHistory{err: errors.New("disk full")})
	rec := serve(s, uploadRequest(t, "/process_vcf/?drug=CODEINE", "patient.vcf", sampleVCF))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDrugs(t *testing.T) {
	rec := serve(New(assess.NewEngine(), nil), httptest.NewRequest(http.MethodGet, "/drugs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"drug":"CODEINE","gene":"CYP2D6"}`)
}

func TestHealthz(t *testing.T) {
	rec := serve(New(assess.NewEngine(), nil), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRecent(t *testing.T) {
	h := &fakeHistory{records: []duckdb.Record{
		{ID: "a", PatientID: "P1", Drug: "CODEINE"},
		{ID: "b", PatientID: "P2", Drug: "WARFARIN"},
	}}
	s := New(assess.NewEngine(), h)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/analyses/recent?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Analyses []duckdb.Record `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Analyses, 1)
	assert.Equal(t, "a", body.Analyses[0].ID)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/analyses/recent?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecent_Empty(t *testing.T) {
	s := New(assess.NewEngine(), &fakeHistory{})
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/analyses/recent", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"analyses":[]}`, rec.Body.String())
}

func TestRecent_Disabled(t *testing.T) {
	rec := serve(New(assess.NewEngine(), nil), httptest.NewRequest(http.MethodGet, "/analyses/recent", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := serve(New(assess.NewEngine(), nil), req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
