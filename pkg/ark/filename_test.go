package ark

import "testing"

func TestParseArchiveFilename(t *testing.T) {
	cases := []struct {
		name string
		want ArchiveFilename
	}{
		{
			name: "010_and_mlpdata",
			want: ArchiveFilename{Raw: "010_and_mlpdata", Priority: "010", Tag: "mlpdata"},
		},
		{
			name: "020_and_mlpextra_low_pvr",
			want: ArchiveFilename{Raw: "020_and_mlpextra_low_pvr", Priority: "020", Tag: "mlpextra", Calibre: "low", Format: "pvr"},
		},
		{
			name: "050_and_softdlc_mlpdata_pack1_veryhigh",
			want: ArchiveFilename{
				Raw: "050_and_softdlc_mlpdata_pack1_veryhigh", Priority: "050",
				IsDLC: true, Tag: "mlpdata", DLCTag: "pack1", Calibre: "veryhigh",
			},
		},
		{
			name: "300_and_mlpdata_pvr_veryhigh",
			want: ArchiveFilename{Raw: "300_and_mlpdata_pvr_veryhigh", Priority: "300", Tag: "mlpdata", Format: "pvr", Calibre: "veryhigh"},
		},
	}

	for _, c := range cases {
		got, ok := ParseArchiveFilename(c.name)
		if !ok {
			t.Fatalf("%q: parse failed", c.name)
		}
		if got != c.want {
			t.Errorf("%q: got %+v, want %+v", c.name, got, c.want)
		}
		if s := got.String(); s != c.name {
			t.Errorf("%q: String() round trip = %q", c.name, s)
		}
	}
}

func TestParseArchiveFilenameRejectsMalformed(t *testing.T) {
	cases := []string{"", "no_separator_here", "010_and_"}
	for _, name := range cases {
		if _, ok := ParseArchiveFilename(name); ok {
			t.Errorf("%q: expected parse failure", name)
		}
	}
}

func TestParseArchiveFilenameUnknownTokenLeavesFieldEmpty(t *testing.T) {
	got, ok := ParseArchiveFilename("010_and_startup_potato")
	if !ok {
		t.Fatal("parse failed")
	}
	if got.Calibre != "" || got.Format != "" || got.Encoding != "" {
		t.Errorf("unrecognized suffix token should classify into no field, got %+v", got)
	}
}

// TestLessArchiveFilenameTotalOrder checks that priority beats every
// suffix token, and DLC archives always sort after non-DLC ones
// regardless of priority.
func TestLessArchiveFilenameTotalOrder(t *testing.T) {
	names := []string{
		"300_and_mlpdata_pvr_veryhigh",
		"000_and_startup_common",
		"300_and_softdlc_mlpdata_pack1_pvr",
		"010_and_mlpextra",
	}
	want := []string{
		"000_and_startup_common",
		"010_and_mlpextra",
		"300_and_mlpdata_pvr_veryhigh",
		"300_and_softdlc_mlpdata_pack1_pvr",
	}

	sorted := append([]string(nil), names...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && LessArchiveFilename(sorted[j], sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", sorted, want)
		}
	}
}

func TestLessArchiveFilenameFallsBackToStringCompare(t *testing.T) {
	if !LessArchiveFilename("alpha.ark", "beta.ark") {
		t.Fatal("expected alpha.ark < beta.ark under string fallback")
	}
}

func TestLessArchiveFilenameIsAsymmetric(t *testing.T) {
	a, b := "000_and_startup_common", "010_and_mlpextra_low_pvr"
	if LessArchiveFilename(a, b) == LessArchiveFilename(b, a) {
		t.Fatal("less(a,b) and less(b,a) must not both be true (or both false for distinct keys)")
	}
}

func TestLessArchiveFilenameTotalOrderProperties(t *testing.T) {
	names := []string{
		"000_and_startup_common",
		"010_and_mlpextragui_low",
		"020_and_mlpextra_pvr",
		"020_and_mlpextra2_astc",
		"300_and_mlpdata_pvr_veryhigh",
		"300_and_softdlc_mlpdata_pack1_pvr",
		"999_and_unknowntag",
	}
	for _, x := range names {
		for _, y := range names {
			lt, gt := LessArchiveFilename(x, y), LessArchiveFilename(y, x)
			if x == y {
				if lt || gt {
					t.Errorf("%q should not be less than itself", x)
				}
				continue
			}
			if lt == gt {
				t.Errorf("exactly one of x<y, y<x must hold for %q vs %q", x, y)
			}
		}
	}
}
