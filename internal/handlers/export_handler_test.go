package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-drug-pricing/internal/models"
)

func TestExportXlsxDownload(t *testing.T) {
	db := setupTestDB(t)
	seedItems(t, db,
		models.Item{ItemCode: "DRG-0001", FullName: "Paracetamol 500mg TAB", Cost: 100, OPDPrice: fptr(150), IPDPrice: fptr(180)},
		models.Item{ItemCode: "DRG-0002", FullName: "Amoxicillin 500mg CAP", Cost: 40, OPDPrice: fptr(90), IPDPrice: fptr(110)},
	)
	r := storeRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/export/xlsx?codes=DRG-0002,DRG-0001", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content-type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "pricing-summary.xlsx") {
		t.Fatalf("content-disposition = %q", cd)
	}
	// xlsx is a zip container
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Fatal("body is not a zip archive")
	}
}

func TestExportPdfDownload(t *testing.T) {
	db := setupTestDB(t)
	seedItems(t, db,
		models.Item{ItemCode: "DRG-0001", FullName: "Paracetamol 500mg TAB", Cost: 100, OPDPrice: fptr(150), IPDPrice: fptr(180)},
	)
	r := storeRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/export/pdf?codes=DRG-0001", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body is not a PDF")
	}
}

func TestExportRequiresSelection(t *testing.T) {
	setupTestDB(t)
	r := storeRouter()

	for _, path := range []string{"/api/export/xlsx", "/api/export/pdf", "/api/export/xlsx?codes=,,"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", path, w.Code)
		}
	}
}
