package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdlinkcheck/internal/checker"
)

func TestRecorder_RecordScanAndServe(t *testing.T) {
	rec := NewRecorder()

	rep := &checker.Report{
		FilesScanned: 5,
		Findings: []checker.Finding{
			{Verdict: checker.VerdictBroken},
			{Verdict: checker.VerdictOK},
		},
	}
	rec.RecordScan(rep, 120*time.Millisecond)
	rec.RecordScan(rep, 80*time.Millisecond)

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, "mdlinkcheck_scans_total 2")
	assert.Contains(t, out, "mdlinkcheck_files_scanned_total 10")
	assert.Contains(t, out, "mdlinkcheck_broken_links_total 2")
	assert.Contains(t, out, "mdlinkcheck_last_scan_broken_links 1")
}
