package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestExporterRecords(t *testing.T) {
	exporter := NewExporter(DefaultConfig())

	exporter.RecordInsert(3, 10*time.Millisecond, nil)
	exporter.RecordInsert(2, 5*time.Millisecond, errors.New("boom"))
	exporter.RecordSearch(5, 20*time.Millisecond, nil)
	exporter.RecordSearch(1, 15*time.Millisecond, errors.New("boom"))

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatal(err)
	}
	output := string(body)

	for _, metric := range []string{
		"vecstore_insert_duration_seconds",
		"vecstore_search_duration_seconds",
		"vecstore_documents_inserted_total 3",
		"vecstore_search_results_total 6",
		`vecstore_errors_total{op="insert"} 1`,
		`vecstore_errors_total{op="search"} 1`,
	} {
		if !strings.Contains(output, metric) {
			t.Errorf("metrics output missing %q", metric)
		}
	}
}

func TestNilExporterIsNoOp(t *testing.T) {
	var exporter *Exporter
	exporter.RecordInsert(1, time.Millisecond, nil)
	exporter.RecordSearch(1, time.Millisecond, nil)
}
