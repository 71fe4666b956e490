package version

import "testing"

func TestInfo_Defaults(t *testing.T) {
	got := Info("sdex-api")
	want := BuildInfo{Service: "sdex-api", Version: "dev", Commit: "none", Date: "unknown"}
	if got != want {
		t.Fatalf("Info() = %+v, want %+v", got, want)
	}
	if s := got.String(); s != "sdex-api dev (none, unknown)" {
		t.Fatalf("String() = %q", s)
	}
}
