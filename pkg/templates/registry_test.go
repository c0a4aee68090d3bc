package templates

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
)

func TestRegistryLoadAndExecute(t *testing.T) {
	reg, err := NewRegistryFromFS(fstest.MapFS{
		"pages/greeting.tmpl": {Data: []byte("<p>{{.Name | lower}}</p>")},
		"pages/notes.txt":     {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("init registry: %v", err)
	}
	if ids := reg.List(); len(ids) != 1 {
		t.Fatalf("expected only the .tmpl file, have %v", ids)
	}

	var buf bytes.Buffer
	if err := reg.Execute(&buf, "pages/greeting", map[string]string{"Name": "<B>TSLA</B>"}); err != nil {
		t.Fatalf("render template: %v", err)
	}
	if got := buf.String(); got != "<p>&lt;b&gt;tsla&lt;/b&gt;</p>" {
		t.Fatalf("unexpected render result: %s", got)
	}
}

func TestRegistryParseError(t *testing.T) {
	_, err := NewRegistryFromFS(fstest.MapFS{
		"pages/broken.tmpl": {Data: []byte("{{.Name")},
	})
	if err == nil || !strings.Contains(err.Error(), "pages/broken") {
		t.Fatalf("expected parse error naming the template, got %v", err)
	}
}

func TestRegistryUnknownTemplate(t *testing.T) {
	reg, err := NewRegistryFromFS(fstest.MapFS{})
	if err != nil {
		t.Fatalf("init registry: %v", err)
	}

	var buf bytes.Buffer
	if err := reg.Execute(&buf, "pages/missing", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestEmbeddedDashboard(t *testing.T) {
	reg := Get()

	found := false
	for _, id := range reg.List() {
		if id == "pages/dashboard" {
			found = true
		}
	}
	if !found {
		t.Fatalf("embedded dashboard page missing, have %v", reg.List())
	}

	tmpl, err := reg.GetTemplate("pages/dashboard")
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if !strings.HasSuffix(tmpl.Path, ".tmpl") {
		t.Fatalf("unexpected path %s", tmpl.Path)
	}
}
