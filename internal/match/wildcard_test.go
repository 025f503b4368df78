package match_test

import (
	"testing"

	"rollbardemo/internal/match"
)

// TestWildcard_MatchesPatterns verifies anchor and substring semantics.
// Params: testing.T for assertions.
// Returns: none.
func TestWildcard_MatchesPatterns(t *testing.T) {
	cases := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"*", "anything", true},
		{"person_tracking", "person_tracking", true},
		{"person_tracking", "custom_data", false},
		{"person*", "person_tracking", true},
		{"person*", "tracking_person", false},
		{"*tracking", "person_tracking", true},
		{"*errors*", "multiple_errors_demo", true},
		{"*errors*", "business_events", false},
		{"exception*message", "exception_vs_message", true},
		{"exception*message", "exception_types", false},
		{"a*b*c", "a-x-b-y-c", true},
		{"a*b*c", "a-x-c-y-b", false},
	}

	for _, tc := range cases {
		if got := match.Wildcard(tc.pattern, tc.value); got != tc.want {
			t.Fatalf("pattern %q value %q: got %v, want %v", tc.pattern, tc.value, got, tc.want)
		}
	}
}

// TestWildcard_FoldsCase verifies case-insensitive matching in both directions.
// Params: testing.T for assertions.
// Returns: none.
func TestWildcard_FoldsCase(t *testing.T) {
	if !match.Wildcard("PERSON*", "person_tracking") {
		t.Fatalf("expected upper-case pattern to match")
	}
	if !match.Wildcard("person*", "PERSON_TRACKING") {
		t.Fatalf("expected upper-case value to match")
	}
}

// TestCompile_RejectsEmptyPattern verifies blank patterns do not compile.
// Params: testing.T for assertions.
// Returns: none.
func TestCompile_RejectsEmptyPattern(t *testing.T) {
	if _, ok := match.Compile("   "); ok {
		t.Fatalf("expected blank pattern to be rejected")
	}
	if match.Wildcard("", "person_tracking") {
		t.Fatalf("expected empty pattern to match nothing")
	}
}
