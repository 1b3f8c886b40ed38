package main_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/macrat/topodown/cmd/topodown"
	"github.com/macrat/topodown/internal/testutil"
	"github.com/xuri/excelize/v2"
)

const (
	testDowntimes      = "../../internal/testutil/testdata/downtimes.xml"
	testResourceGroups = "../../internal/testutil/testdata/rgsummary.xml"
)

func TestConvCommand_Run(t *testing.T) {
	csvHeader := "site,category,resource,fqdn,class,severity,start,end,description\n"

	tests := []struct {
		args   []string
		stdin  string
		stdout string
		stderr string
		code   int
	}{
		{
			[]string{testDowntimes, testResourceGroups},
			"",
			`^` + csvHeader + `Midwest Tier2,future,MWT2-CE,.*\nNebraska,past,Nebraska-Red-EP,.*\nOrphan-Group,current,Orphan-CE,.*\nUCSD,past,UCSD-CE1,.*\nUCSD,current,UCSD-EP1,.*\nUCSD,future,UCSD-CE2,.*\n$`,
			`^$`,
			0,
		},
		{
			[]string{"-c", "--filter", "ucsd", "--sort", "site", "--order", "desc", testDowntimes, testResourceGroups},
			"",
			`^` + csvHeader + `UCSD,past,.*\nUCSD,current,.*\nUCSD,future,.*\n$`,
			`^$`,
			0,
		},
		{
			[]string{"--service", "138", testDowntimes, testResourceGroups},
			"",
			`^` + csvHeader + `Midwest Tier2,past,MWT2-Squid,.*\nMidwest Tier2,future,MWT2-CE,.*\n$`,
			`^$`,
			0,
		},
		{
			[]string{"-", testResourceGroups},
			string(testutil.DowntimesXML),
			`^` + csvHeader + `Midwest Tier2,future,MWT2-CE,`,
			`^$`,
			0,
		},
		{
			[]string{"-t", "--sort", "past", "--order", "desc", testDowntimes, "-"},
			string(testutil.ResourceSummaryXML),
			`^SITE +PAST +CURRENT +UPCOMING +RESOURCE +START +END\nNebraska +1 +0 +0 +\[past\] Nebraska-Red-EP +2024-01-20 +2024-01-20\n`,
			`^$`,
			0,
		},
		{
			[]string{"-c", "-j", testDowntimes, testResourceGroups},
			"",
			`^$`,
			"^error: flags for output format can not use multiple in the same time\\.\n$",
			2,
		},
		{
			[]string{"--sort", "resource", testDowntimes, testResourceGroups},
			"",
			`^$`,
			"^error: unknown sort key \"resource\"\n$",
			2,
		},
		{
			[]string{testDowntimes},
			"",
			`^$`,
			"^error: DOWNTIMES and RESOURCE_GROUPS are required\\.\n",
			2,
		},
		{
			[]string{"-", "-"},
			"",
			`^$`,
			"^error: only one of the inputs can be read from stdin\\.\n$",
			2,
		},
		{
			[]string{"./no/such/file.xml", testResourceGroups},
			"",
			`^$`,
			"^error: \\./no/such/file\\.xml: ",
			1,
		},
		{
			[]string{testResourceGroups, testResourceGroups},
			"",
			`^$`,
			"^error: ",
			1,
		},
		{
			[]string{"--no-such-flag"},
			"",
			`^$`,
			"^unknown flag: --no-such-flag\n\nPlease see `topodown conv -h` for more information\\.\n$",
			2,
		},
		{
			[]string{"-h"},
			"",
			`^topodown conv -- `,
			`^$`,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cmd := main.ConvCommand{
				InStream:  strings.NewReader(tt.stdin),
				OutStream: &stdout,
				ErrStream: &stderr,
			}

			code := cmd.Run(append([]string{"topodown", "conv"}, tt.args...))
			if code != tt.code {
				t.Errorf("unexpected exit code: %d\n%s", code, stderr.String())
			}

			if ok, err := regexp.MatchString(tt.stdout, stdout.String()); err != nil {
				t.Fatalf("failed to compile pattern: %s", err)
			} else if !ok {
				t.Errorf("unexpected stdout:\n%s", stdout.String())
			}

			if ok, err := regexp.MatchString(tt.stderr, stderr.String()); err != nil {
				t.Fatalf("failed to compile pattern: %s", err)
			} else if !ok {
				t.Errorf("unexpected stderr:\n%s", stderr.String())
			}
		})
	}
}

func TestConvCommand_Run_json(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := main.ConvCommand{
		InStream:  strings.NewReader(""),
		OutStream: &stdout,
		ErrStream: &stderr,
	}

	if code := cmd.Run([]string{"topodown", "conv", "-j", "--sort", "future", "--order", "desc", testDowntimes, testResourceGroups}); code != 0 {
		t.Fatalf("unexpected exit code: %d\n%s", code, stderr.String())
	}

	var rows []struct {
		SiteName string
		Future   []struct {
			ResourceName string
			StartDate    string
		}
	}
	if err := json.Unmarshal(stdout.Bytes(), &rows); err != nil {
		t.Fatalf("failed to decode output: %s", err)
	}

	var sites []string
	for _, r := range rows {
		sites = append(sites, r.SiteName)
	}
	if diff := cmp.Diff([]string{"Midwest Tier2", "UCSD", "Nebraska", "Orphan-Group"}, sites); diff != "" {
		t.Errorf("unexpected sites:\n%s", diff)
	}

	if rows[0].Future[0].ResourceName != "MWT2-CE" || rows[0].Future[0].StartDate != "2024-03-05T14:00:00Z" {
		t.Errorf("unexpected downtime: %#v", rows[0].Future[0])
	}
}

func TestConvCommand_Run_xlsx(t *testing.T) {
	output := filepath.Join(t.TempDir(), "downtimes.xlsx")

	var stdout, stderr bytes.Buffer
	cmd := main.ConvCommand{
		InStream:  strings.NewReader(""),
		OutStream: &stdout,
		ErrStream: &stderr,
	}

	if code := cmd.Run([]string{"topodown", "conv", "-x", "-o", output, testDowntimes, testResourceGroups}); code != 0 {
		t.Fatalf("unexpected exit code: %d\n%s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected stdout: %s", stdout.String())
	}

	f, err := excelize.OpenFile(output)
	if err != nil {
		t.Fatalf("failed to open output: %s", err)
	}
	defer f.Close()

	rows, err := f.GetRows("downtimes")
	if err != nil {
		t.Fatalf("failed to read rows: %s", err)
	}
	if len(rows) != 7 {
		t.Errorf("expected 1 header and 6 records but got %d rows", len(rows))
	}

	if _, err := os.Stat(output); err != nil {
		t.Errorf("output file is not created: %s", err)
	}
}
