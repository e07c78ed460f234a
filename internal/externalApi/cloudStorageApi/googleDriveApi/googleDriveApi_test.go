package googleDriveApi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/carteira_acoes/config"
	"google.golang.org/api/option"
)

type driveStub struct {
	mu       sync.Mutex
	deleted  []string
	trashed  bool
	uploaded bool
	shared   bool
}

func (d *driveStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/files":
		fresh := time.Now().Format(time.RFC3339)
		fmt.Fprintf(w, `{"files":[{"id":"old","createdTime":"2020-01-01T00:00:00Z"},{"id":"fresh","createdTime":%q},{"id":"broken","createdTime":"yesterday"}]}`, fresh)
	case r.Method == http.MethodDelete && r.URL.Path == "/files/trash":
		d.trashed = true
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/files/"):
		d.deleted = append(d.deleted, strings.TrimPrefix(r.URL.Path, "/files/"))
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/upload/drive/v3/files"):
		d.uploaded = true
		_, _ = w.Write([]byte(`{"id":"file123"}`))
	case r.Method == http.MethodPost && r.URL.Path == "/files/file123/permissions":
		d.shared = true
		_, _ = w.Write([]byte(`{"id":"perm1"}`))
	default:
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
	}
}

func newTestApi(t *testing.T, stub *driveStub) *GoogleDriveApi {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	cfg := &config.Config{GoogleDrive: config.GoogleDrive{FileTTL: time.Hour}}
	a, err := New(context.Background(), cfg, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestDeleteOldFiles(t *testing.T) {
	stub := &driveStub{}
	a := newTestApi(t, stub)

	if err := a.DeleteOldFiles(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(stub.deleted, []string{"old"}) {
		t.Errorf("deleted = %v, want [old]", stub.deleted)
	}
	if !stub.trashed {
		t.Error("trash was not emptied")
	}
}

func TestUploadFile(t *testing.T) {
	stub := &driveStub{}
	a := newTestApi(t, stub)

	link, err := a.UploadFile(context.Background(), strings.NewReader("content"), "carteira_1.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if link != "https://drive.google.com/file/d/file123/view" {
		t.Errorf("link = %q", link)
	}
	if !stub.uploaded || !stub.shared {
		t.Errorf("uploaded = %v, shared = %v", stub.uploaded, stub.shared)
	}
}
