package storage

import (
	"bytes"
	"strings"
	"testing"

	"peelsim/internal/gesture"
	"peelsim/internal/peel"
)

func sampleResult() *gesture.Result {
	return &gesture.Result{
		Script: "corner-tear",
		Samples: []gesture.Sample{
			{T: 0.0167, State: peel.Idle, Progress: 0, Fraction: 0, Zones: 4},
			{T: 0.0333, State: peel.Peeling, Progress: 0.3, Fraction: 0, Zones: 4},
			{T: 0.05, State: peel.SnapOff, Progress: 0.72, Fraction: 0.11, Zones: 6},
		},
		Tears:         1,
		FinalFraction: 0.11,
		ZoneCount:     6,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	id, err := st.Save("default", sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != id {
		t.Errorf("id mismatch: %s vs %s", meta.ID, id)
	}
	if meta.Script != "corner-tear" || meta.Preset != "default" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Tears != 1 || meta.FinalFraction != 0.11 || meta.ZoneCount != 6 {
		t.Errorf("result fields lost: %+v", meta)
	}
}

func TestListSessions(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	if metas, err := st.List(); err != nil || len(metas) != 0 {
		t.Fatalf("empty store should list nothing: %v, %d", err, len(metas))
	}

	if _, err := st.Save("default", sampleResult()); err != nil {
		t.Fatal(err)
	}

	metas, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 1 {
		t.Fatalf("expected 1 session, got %d", len(metas))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("/nonexistent/peelsim-test")
	metas, err := st.List()
	if err != nil || metas != nil {
		t.Errorf("missing dir should list nothing: %v, %v", metas, err)
	}
}

func TestTimelineRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	res := sampleResult()
	id, err := st.Save("default", res)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := st.LoadTimeline(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(res.Samples) {
		t.Fatalf("expected %d rows, got %d", len(res.Samples), len(rows))
	}
	if rows[1].State != "PEELING" {
		t.Errorf("state lost: %q", rows[1].State)
	}
	if rows[2].Zones != 6 {
		t.Errorf("zones lost: %d", rows[2].Zones)
	}
}

func TestExports(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	id, err := st.Save("brittle", sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	var jsonBuf bytes.Buffer
	if err := st.ExportJSON(&jsonBuf, id); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(jsonBuf.String(), `"preset": "brittle"`) {
		t.Errorf("json export missing preset: %s", jsonBuf.String())
	}

	var csvBuf bytes.Buffer
	if err := st.ExportCSV(&csvBuf, id); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(csvBuf.String()), "\n")
	if len(lines) != 4 {
		t.Errorf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "time,state,progress") {
		t.Errorf("unexpected header: %s", lines[0])
	}
}
